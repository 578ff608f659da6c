package sink

import "asynctask/internal/logevent"

// Counts tallies delivered events by kind.
type Counts struct {
	Messages int
	Warnings int
	Errors   int
}

// Reporter is the owner capability over a Sink.
//
// It is not safe for concurrent use: exactly one goroutine owns it.
type Reporter struct {
	dest   Sink
	counts Counts
}

// NewReporter wraps dest. A nil dest discards events but still counts them.
func NewReporter(dest Sink) *Reporter {
	if dest == nil {
		dest = Discard
	}
	return &Reporter{dest: dest}
}

// Deliver reports a prepared event.
func (r *Reporter) Deliver(event logevent.Event) {
	switch event.Kind {
	case logevent.KindError:
		r.counts.Errors++
	case logevent.KindWarning:
		r.counts.Warnings++
	default:
		r.counts.Messages++
	}
	r.dest.Deliver(event)
}

// Message reports an informational message.
func (r *Reporter) Message(text string, importance logevent.Importance) {
	r.Deliver(logevent.Message(text, importance))
}

// Warning reports a warning.
func (r *Reporter) Warning(text string) {
	r.Deliver(logevent.Warning(text))
}

// Error reports an error. code and file may be empty.
func (r *Reporter) Error(code, file string, line int, text string) {
	r.Deliver(logevent.Error(code, file, line, text))
}

// ObserveUnit forwards a lifecycle notification when the destination accepts it.
func (r *Reporter) ObserveUnit(state UnitState) {
	if obs, ok := r.dest.(UnitObserver); ok {
		obs.ObserveUnit(state)
	}
}

// HasLoggedErrors reports whether any error has been delivered so far.
func (r *Reporter) HasLoggedErrors() bool {
	return r.counts.Errors > 0
}

// Counts returns the tallies so far.
func (r *Reporter) Counts() Counts {
	return r.counts
}
