package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the session header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Session " + state.SessionID
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the unit and event counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Running: " + fmtInt(counts.Running) +
		" Completed: " + fmtInt(counts.Completed) +
		" Failed: " + fmtInt(counts.Failed) +
		" Cancelled: " + fmtInt(counts.Cancelled) +
		" | Warnings: " + fmtInt(state.Totals.Warnings) +
		" Errors: " + fmtInt(state.Totals.Errors)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
