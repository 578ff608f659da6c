package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the unit table columns for a standard terminal.
func defaultColumns() []table.Column {
	return columnsForWidth(100)
}

// columnsForWidth sizes the last-output column to the terminal width.
func columnsForWidth(width int) []table.Column {
	fixed := 16 + 12 + 10 + 6 + 6 + 6 + 8
	last := width - fixed - 8
	if last < 10 {
		last = 10
	}
	return []table.Column{
		{Title: "Unit", Width: 16},
		{Title: "Category", Width: 12},
		{Title: "State", Width: 10},
		{Title: "Msg", Width: 6},
		{Title: "Warn", Width: 6},
		{Title: "Err", Width: 6},
		{Title: "Time", Width: 8},
		{Title: "Last output", Width: last},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatText(row.Label, 16),
			formatText(row.Category, 12),
			formatState(row, noColor),
			fmtInt(row.Counts.Messages),
			fmtInt(row.Counts.Warnings),
			fmtInt(row.Counts.Errors),
			formatRowDuration(row, now),
			formatText(row.LastText, 80),
		})
	}
	return rows
}
