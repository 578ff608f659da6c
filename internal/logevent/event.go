// Package logevent defines the events units report to their owner.
package logevent

import "time"

// Kind identifies the variant of an event.
type Kind int

const (
	// KindMessage is an informational message.
	KindMessage Kind = iota
	// KindWarning is a warning; it never affects success.
	KindWarning
	// KindError is an error; reporting one marks the session as failed.
	KindError
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Importance ranks messages for verbosity filtering.
type Importance int

const (
	// ImportanceHigh messages are shown at every verbosity.
	ImportanceHigh Importance = iota
	// ImportanceNormal is the default importance.
	ImportanceNormal
	// ImportanceLow marks debug output.
	ImportanceLow
)

// String returns the lower-case importance name.
func (i Importance) String() string {
	switch i {
	case ImportanceHigh:
		return "high"
	case ImportanceNormal:
		return "normal"
	case ImportanceLow:
		return "low"
	default:
		return "unknown"
	}
}

// Source identifies the unit that produced an event.
type Source struct {
	UnitID   string
	UnitName string
}

// Label returns the unit name, falling back to a short id.
func (s Source) Label() string {
	if s.UnitName != "" {
		return s.UnitName
	}
	if len(s.UnitID) > 8 {
		return s.UnitID[:8]
	}
	return s.UnitID
}

// Event is a single message, warning or error.
//
// Importance is meaningful for messages only. Code, File, Line and Column are
// meaningful for errors only and may be empty.
type Event struct {
	Kind       Kind
	Text       string
	Importance Importance
	Code       string
	File       string
	Line       int
	Column     int
	Source     Source
	Time       time.Time
}

// Message builds a message event.
func Message(text string, importance Importance) Event {
	return Event{Kind: KindMessage, Text: text, Importance: importance, Time: time.Now()}
}

// Warning builds a warning event.
func Warning(text string) Event {
	return Event{Kind: KindWarning, Text: text, Importance: ImportanceHigh, Time: time.Now()}
}

// Error builds an error event with an optional code and location.
func Error(code, file string, line int, text string) Event {
	return Event{
		Kind:       KindError,
		Text:       text,
		Importance: ImportanceHigh,
		Code:       code,
		File:       file,
		Line:       line,
		Time:       time.Now(),
	}
}

// WithSource returns a copy of e attributed to src.
func (e Event) WithSource(src Source) Event {
	e.Source = src
	return e
}
