package journal

import (
	"context"
	"time"

	"asynctask/internal/logevent"
	"asynctask/internal/sink"
)

// Writer is a sink that appends events and unit states for one session.
// Like every sink it belongs to the owner goroutine. Write failures do not
// interrupt delivery; the first one is kept for Err.
type Writer struct {
	j       *Journal
	session string
	seq     int64
	err     error
}

// Writer returns a sink recording under sessionID.
func (j *Journal) Writer(sessionID string) *Writer {
	return &Writer{j: j, session: sessionID}
}

// Deliver appends event.
func (w *Writer) Deliver(event logevent.Event) {
	w.seq++
	at := event.Time
	if at.IsZero() {
		at = time.Now()
	}
	w.record(w.j.exec(context.Background(),
		`INSERT INTO events (session_id, seq, kind, importance, code, file, line, col, unit_id, unit_name, body, at_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.session, w.seq, event.Kind.String(), event.Importance.String(),
		event.Code, event.File, event.Line, event.Column,
		event.Source.UnitID, event.Source.UnitName, event.Text, at.UnixMilli(),
	))
}

// ObserveUnit appends a lifecycle row.
func (w *Writer) ObserveUnit(state sink.UnitState) {
	w.record(w.j.exec(context.Background(),
		`INSERT INTO unit_states (session_id, unit_id, unit_name, category, state, at_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		w.session, state.Source.UnitID, state.Source.UnitName, state.Category, state.State, time.Now().UnixMilli(),
	))
}

func (w *Writer) record(err error) {
	if err != nil && w.err == nil {
		w.err = err
	}
}

// Err returns the first write failure.
func (w *Writer) Err() error {
	return w.err
}
