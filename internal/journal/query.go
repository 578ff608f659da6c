package journal

import (
	"context"
	"fmt"
	"time"

	"asynctask/internal/logevent"
)

// Summary aggregates one session's events.
type Summary struct {
	SessionID string
	Messages  int64
	Warnings  int64
	Errors    int64
	Units     int64
	First     time.Time
	Last      time.Time
}

// Entry is a recorded event with its session.
type Entry struct {
	SessionID string
	Event     logevent.Event
}

// Summaries returns per-session counts, most recent session first.
func (j *Journal) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id,
		       CAST(SUM(CASE WHEN kind = 'message' THEN 1 ELSE 0 END) AS BIGINT),
		       CAST(SUM(CASE WHEN kind = 'warning' THEN 1 ELSE 0 END) AS BIGINT),
		       CAST(SUM(CASE WHEN kind = 'error' THEN 1 ELSE 0 END) AS BIGINT),
		       CAST(COUNT(DISTINCT unit_id) AS BIGINT),
		       MIN(at_ms),
		       MAX(at_ms)
		FROM events
		GROUP BY session_id
		ORDER BY MAX(at_ms) DESC, session_id`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var first, last int64
		if err := rows.Scan(&s.SessionID, &s.Messages, &s.Warnings, &s.Errors, &s.Units, &first, &last); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.First = time.UnixMilli(first)
		s.Last = time.UnixMilli(last)
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecentErrors returns up to limit error events, newest first.
func (j *Journal) RecentErrors(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, code, file, line, col, unit_id, unit_name, body, at_ms
		FROM events
		WHERE kind = 'error'
		ORDER BY at_ms DESC, seq DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query errors: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at int64
		ev := logevent.Event{Kind: logevent.KindError, Importance: logevent.ImportanceHigh}
		if err := rows.Scan(&e.SessionID, &ev.Code, &ev.File, &ev.Line, &ev.Column,
			&ev.Source.UnitID, &ev.Source.UnitName, &ev.Text, &at); err != nil {
			return nil, fmt.Errorf("scan error event: %w", err)
		}
		ev.Time = time.UnixMilli(at)
		e.Event = ev
		out = append(out, e)
	}
	return out, rows.Err()
}
