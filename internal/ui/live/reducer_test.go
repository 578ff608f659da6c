package live

import (
	"testing"
	"time"

	"asynctask/internal/logevent"
	"asynctask/internal/sink"
)

var (
	vet  = logevent.Source{UnitID: "3f1c0a9e-vet", UnitName: "vet"}
	anon = logevent.Source{UnitID: "8d2e44b1-0000"}
)

func TestReduce_TracksUnitLifecycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	state := Reduce(State{}, Event{Kind: EventSessionStart, SessionID: "s1"}, now)
	state = Reduce(state, Event{Kind: EventUnit, Unit: sink.UnitState{Source: vet, Category: "checks", State: "running"}}, now)
	state = Reduce(state, Event{Kind: EventLog, Log: logevent.Message("ok ./...", logevent.ImportanceNormal).WithSource(vet)}, now)
	state = Reduce(state, Event{Kind: EventUnit, Unit: sink.UnitState{Source: vet, Category: "checks", State: "completed"}}, now.Add(2*time.Second))

	if len(state.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(state.Rows))
	}
	row := state.Rows[0]
	if row.Label != "vet" || row.Category != "checks" || row.State != "completed" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.Counts.Messages != 1 || row.LastText != "ok ./..." {
		t.Fatalf("unexpected row counts: %+v", row)
	}
	if got := formatRowDuration(row, now.Add(time.Hour)); got != "2s" {
		t.Fatalf("unexpected duration %q", got)
	}
	if state.Counts.Completed != 1 || state.Counts.Running != 0 {
		t.Fatalf("unexpected counts: %+v", state.Counts)
	}
	if state.LastEvent != "vet completed" {
		t.Fatalf("unexpected last event %q", state.LastEvent)
	}
}

func TestReduce_ErrorsMarkUnitFailed(t *testing.T) {
	now := time.Now()
	state := Reduce(State{}, Event{Kind: EventLog, Log: logevent.Error("E001", "", 0, "boom").WithSource(anon)}, now)
	if state.LastEvent != "8d2e44b1: error E001: boom" {
		t.Fatalf("unexpected last event %q", state.LastEvent)
	}
	state = Reduce(state, Event{Kind: EventUnit, Unit: sink.UnitState{Source: anon, State: "completed"}}, now)

	if state.Rows[0].Label != "8d2e44b1" {
		t.Fatalf("expected short id label, got %q", state.Rows[0].Label)
	}
	if state.Counts.Failed != 1 || state.Totals.Errors != 1 {
		t.Fatalf("unexpected counts: %+v totals %+v", state.Counts, state.Totals)
	}
	if got := formatState(state.Rows[0], true); got != "failed" {
		t.Fatalf("unexpected state label %q", got)
	}
}

func TestReduce_OwnerEventsCountWithoutRow(t *testing.T) {
	state := Reduce(State{}, Event{Kind: EventLog, Log: logevent.Warning("session warning")}, time.Now())
	if len(state.Rows) != 0 {
		t.Fatalf("unexpected rows: %+v", state.Rows)
	}
	if state.Totals.Warnings != 1 || state.LastEvent != "warning: session warning" {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestReduce_LowImportanceDoesNotReplaceFooter(t *testing.T) {
	state := Reduce(State{}, Event{Kind: EventLog, Log: logevent.Message("headline", logevent.ImportanceHigh)}, time.Now())
	state = Reduce(state, Event{Kind: EventLog, Log: logevent.Message("detail", logevent.ImportanceLow)}, time.Now())
	if state.LastEvent != "headline" {
		t.Fatalf("unexpected last event %q", state.LastEvent)
	}
}

func TestReduce_SessionEnd(t *testing.T) {
	state := Reduce(State{}, Event{Kind: EventLog, Log: logevent.Error("", "", 0, "x")}, time.Now())
	state = Reduce(state, Event{Kind: EventSessionEnd, Success: false}, time.Now())
	if !state.Finished || state.LastEvent != "Session failed (1 errors, 0 warnings)" {
		t.Fatalf("unexpected end state: %+v", state)
	}
}

func TestRowsForState_NoColor(t *testing.T) {
	state := State{Rows: []UnitRow{{Label: "build", Category: "compile", State: "running", LastText: "  compiling\tpkg  "}}}
	rows := rowsForState(state, time.Now(), true)
	if len(rows) != 1 || rows[0][2] != "running" || rows[0][7] != "compiling pkg" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller
	c.Deliver(logevent.Warning("x"))
	c.ObserveUnit(sink.UnitState{})
	c.SessionEnd(true)
	c.Wait()
}
