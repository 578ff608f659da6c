package live

import (
	"asynctask/internal/logevent"
	"asynctask/internal/sink"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventSessionStart signals the start of a session.
	EventSessionStart EventKind = iota
	// EventUnit delivers a unit lifecycle change.
	EventUnit
	// EventLog delivers a reported event.
	EventLog
	// EventSessionEnd signals the end of a session.
	EventSessionEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind      EventKind
	SessionID string
	Unit      sink.UnitState
	Log       logevent.Event
	Success   bool
}
