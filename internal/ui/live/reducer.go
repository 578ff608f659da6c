package live

import (
	"fmt"
	"strings"
	"time"

	"asynctask/internal/logevent"
	"asynctask/internal/sink"
)

// Reduce applies a UI event to the state.
func Reduce(state State, event Event, now time.Time) State {
	switch event.Kind {
	case EventSessionStart:
		state = State{SessionID: event.SessionID, StartedAt: now}
	case EventUnit:
		state = applyUnit(state, event.Unit, now)
	case EventLog:
		state = applyLog(state, event.Log)
	case EventSessionEnd:
		state.Finished = true
		state.Success = event.Success
		state.LastEvent = formatSessionEnd(event.Success, state.Totals)
	}
	state.Counts = recount(state.Rows)
	return state
}

// findRow returns the index of the row for id, or -1.
func findRow(rows []UnitRow, id string) int {
	for i, row := range rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

// ensureRow returns state with a row for src and that row's index.
func ensureRow(state State, src logevent.Source, now time.Time) (State, int) {
	if i := findRow(state.Rows, src.UnitID); i >= 0 {
		return state, i
	}
	rows := make([]UnitRow, len(state.Rows), len(state.Rows)+1)
	copy(rows, state.Rows)
	state.Rows = append(rows, UnitRow{
		ID:        src.UnitID,
		Label:     src.Label(),
		State:     "running",
		StartedAt: now,
	})
	return state, len(state.Rows) - 1
}

// applyUnit records a lifecycle change.
func applyUnit(state State, unit sink.UnitState, now time.Time) State {
	if unit.Source.UnitID == "" {
		return state
	}
	state, i := ensureRow(state, unit.Source, now)
	row := state.Rows[i]
	if unit.Category != "" {
		row.Category = unit.Category
	}
	row.State = unit.State
	if unit.State != "running" && row.FinishedAt.IsZero() {
		row.FinishedAt = now
	}
	state.Rows[i] = row
	state.LastEvent = fmt.Sprintf("%s %s", row.Label, unit.State)
	return state
}

// applyLog counts a reported event against its unit.
func applyLog(state State, event logevent.Event) State {
	bump(&state.Totals, event.Kind)
	if event.Kind != logevent.KindMessage || event.Importance == logevent.ImportanceHigh {
		state.LastEvent = formatLastEvent(event)
	}
	if event.Source.UnitID == "" {
		return state
	}
	state, i := ensureRow(state, event.Source, event.Time)
	row := state.Rows[i]
	bump(&row.Counts, event.Kind)
	row.LastText = strings.TrimSpace(event.Text)
	state.Rows[i] = row
	return state
}

func bump(counts *sink.Counts, kind logevent.Kind) {
	switch kind {
	case logevent.KindError:
		counts.Errors++
	case logevent.KindWarning:
		counts.Warnings++
	default:
		counts.Messages++
	}
}

// recount recomputes state counts for the current rows.
func recount(rows []UnitRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch {
		case row.State == "running":
			counts.Running++
		case row.State == "cancelled":
			counts.Cancelled++
		case row.Counts.Errors > 0:
			counts.Failed++
		default:
			counts.Completed++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event logevent.Event) string {
	prefix := ""
	if label := event.Source.Label(); label != "" {
		prefix = label + ": "
	}
	switch event.Kind {
	case logevent.KindError:
		if event.Code != "" {
			return prefix + "error " + event.Code + ": " + event.Text
		}
		return prefix + "error: " + event.Text
	case logevent.KindWarning:
		return prefix + "warning: " + event.Text
	default:
		return prefix + event.Text
	}
}

func formatSessionEnd(success bool, totals sink.Counts) string {
	status := "succeeded"
	if !success {
		status = "failed"
	}
	return fmt.Sprintf("Session %s (%d errors, %d warnings)", status, totals.Errors, totals.Warnings)
}
