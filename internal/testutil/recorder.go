package testutil

import (
	"sync"

	"asynctask/internal/logevent"
	"asynctask/internal/sink"
)

// RecordingSink captures delivered events and unit observations.
//
// It is locked so tests can inspect it from the test goroutine while an owner
// loop runs elsewhere; production sinks carry no such guarantee.
type RecordingSink struct {
	mu     sync.Mutex
	events []logevent.Event
	units  []sink.UnitState
}

// Deliver records event.
func (r *RecordingSink) Deliver(event logevent.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// ObserveUnit records a lifecycle notification.
func (r *RecordingSink) ObserveUnit(state sink.UnitState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units = append(r.units, state)
}

// Events returns a copy of everything delivered so far.
func (r *RecordingSink) Events() []logevent.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]logevent.Event(nil), r.events...)
}

// Texts returns the text of delivered events of kind, in delivery order.
func (r *RecordingSink) Texts(kind logevent.Kind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e.Text)
		}
	}
	return out
}

// Units returns a copy of the recorded lifecycle notifications.
func (r *RecordingSink) Units() []sink.UnitState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sink.UnitState(nil), r.units...)
}

// CountingYielder records Yield and Reacquire calls.
type CountingYielder struct {
	mu         sync.Mutex
	Yields     int
	Reacquires int
}

// Yield records a yield.
func (y *CountingYielder) Yield() {
	y.mu.Lock()
	defer y.mu.Unlock()
	y.Yields++
}

// Reacquire records a reacquire.
func (y *CountingYielder) Reacquire() {
	y.mu.Lock()
	defer y.mu.Unlock()
	y.Reacquires++
}

// Calls returns the recorded counts.
func (y *CountingYielder) Calls() (yields, reacquires int) {
	y.mu.Lock()
	defer y.mu.Unlock()
	return y.Yields, y.Reacquires
}
