package unit

import (
	"fmt"

	"asynctask/internal/logevent"
	"asynctask/internal/sink"
)

// Logger reports progress for a unit.
//
// Worker code receives a queueing Logger from Unit.Log; it never touches the
// sink. The owner may use Unit.OwnerLog, which reports directly.
type Logger interface {
	// Message logs at normal importance.
	Message(text string)
	Messagef(format string, args ...any)
	// Log logs a message at the given importance.
	Log(importance logevent.Importance, text string)
	// Debug logs at low importance.
	Debug(text string)
	Debugf(format string, args ...any)
	// DebugItems logs message followed by each item, indented.
	DebugItems(message string, items []string)
	Warning(text string)
	Warningf(format string, args ...any)
	Error(text string)
	Errorf(format string, args ...any)
	// CodedError logs an error tagged with code.
	CodedError(code, text string)
	// ErrorAt logs an error with a code and a source position.
	ErrorAt(code, file string, line int, text string)
	// ErrorFromErr logs err, located at the caller.
	ErrorFromErr(err error)
}

// logger implements Logger over an emit function.
type logger struct {
	source logevent.Source
	emit   func(logevent.Event)
}

func newQueueLogger(u *Unit) *logger {
	return &logger{source: u.Source(), emit: u.relay.Enqueue}
}

func newDirectLogger(source logevent.Source, rep *sink.Reporter) *logger {
	return &logger{source: source, emit: rep.Deliver}
}

func (l *logger) send(event logevent.Event) {
	l.emit(event.WithSource(l.source))
}

func (l *logger) Message(text string) {
	l.Log(logevent.ImportanceNormal, text)
}

func (l *logger) Messagef(format string, args ...any) {
	l.Message(fmt.Sprintf(format, args...))
}

func (l *logger) Log(importance logevent.Importance, text string) {
	l.send(logevent.Message(text, importance))
}

func (l *logger) Debug(text string) {
	l.Log(logevent.ImportanceLow, text)
}

func (l *logger) Debugf(format string, args ...any) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *logger) DebugItems(message string, items []string) {
	l.Debug(message)
	for _, item := range items {
		l.Debug("    " + item)
	}
}

func (l *logger) Warning(text string) {
	l.send(logevent.Warning(text))
}

func (l *logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *logger) Error(text string) {
	l.ErrorAt("", "", 0, text)
}

func (l *logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *logger) CodedError(code, text string) {
	l.ErrorAt(code, "", 0, text)
}

func (l *logger) ErrorAt(code, file string, line int, text string) {
	l.send(logevent.Error(code, file, line, text))
}

func (l *logger) ErrorFromErr(err error) {
	l.send(logevent.FromError(err, 1))
}
