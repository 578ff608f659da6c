package live

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatText collapses whitespace and truncates text for display.
func formatText(text string, limit int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if len(normalized) <= limit {
		return normalized
	}
	return normalized[:limit-3] + "..."
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row UnitRow, now time.Time) string {
	if row.StartedAt.IsZero() {
		return ""
	}
	end := now
	if !row.FinishedAt.IsZero() {
		end = row.FinishedAt
	}
	return formatDuration(end.Sub(row.StartedAt))
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}

// formatState renders a row's state label.
func formatState(row UnitRow, noColor bool) string {
	label := row.State
	if row.State == "completed" && row.Counts.Errors > 0 {
		label = "failed"
	}
	if noColor {
		return label
	}
	return stateStyle(label).Render(label)
}

// stateStyle selects a style for a state label.
func stateStyle(label string) lipgloss.Style {
	color := lipgloss.Color("244")
	switch label {
	case "running":
		color = lipgloss.Color("33")
	case "completed":
		color = lipgloss.Color("42")
	case "cancelled":
		color = lipgloss.Color("220")
	case "failed":
		color = lipgloss.Color("196")
	}
	return lipgloss.NewStyle().Foreground(color)
}
