// Package sink holds the owner-only reporting side of a session.
//
// Destinations implement Sink. A Reporter wraps a destination, tracks whether
// any error was reported and is the capability handed to the single goroutine
// allowed to report. Worker code never receives a Reporter.
package sink

import "asynctask/internal/logevent"

// Sink receives delivered events. Implementations are not required to be
// safe for concurrent use; only the owner goroutine calls Deliver.
type Sink interface {
	Deliver(event logevent.Event)
}

// UnitState is a lifecycle notification for destinations that track units.
type UnitState struct {
	Source   logevent.Source
	Category string
	State    string
}

// UnitObserver is implemented by destinations that display unit lifecycle.
type UnitObserver interface {
	ObserveUnit(state UnitState)
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Deliver(logevent.Event) {}

// Fanout delivers each event to every destination in order.
type Fanout []Sink

// Deliver forwards event to all destinations.
func (f Fanout) Deliver(event logevent.Event) {
	for _, s := range f {
		if s != nil {
			s.Deliver(event)
		}
	}
}

// ObserveUnit forwards lifecycle notifications to destinations that accept them.
func (f Fanout) ObserveUnit(state UnitState) {
	for _, s := range f {
		if obs, ok := s.(UnitObserver); ok {
			obs.ObserveUnit(state)
		}
	}
}
