package live

import (
	"time"

	"asynctask/internal/sink"
)

// UnitRow holds UI state for a single unit.
type UnitRow struct {
	ID         string
	Label      string
	Category   string
	State      string
	Counts     sink.Counts
	LastText   string
	StartedAt  time.Time
	FinishedAt time.Time
}

// StatusCounts aggregates units by state.
type StatusCounts struct {
	Running   int
	Completed int
	Cancelled int
	Failed    int
}

// State captures the live UI state for a session.
type State struct {
	SessionID string
	StartedAt time.Time
	Finished  bool
	Success   bool
	LastEvent string
	Rows      []UnitRow
	Counts    StatusCounts
	Totals    sink.Counts
}
