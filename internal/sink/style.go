package sink

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type palette struct {
	enabled bool
}

var (
	prefixStyle  = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("244"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	unitStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
)

func paletteFor(writer io.Writer, noColor bool) palette {
	if noColor {
		return palette{enabled: false}
	}
	return palette{enabled: ShouldUseStyling(writer)}
}

// ShouldUseStyling reports whether writer is a terminal that accepts color.
func ShouldUseStyling(writer io.Writer) bool {
	if writer == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	return IsTerminal(writer)
}

// IsTerminal reports whether writer is backed by a TTY.
func IsTerminal(writer io.Writer) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := writer.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

func (p palette) render(style lipgloss.Style, text string) string {
	if !p.enabled || text == "" {
		return text
	}
	return style.Render(text)
}
