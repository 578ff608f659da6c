package sink

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"asynctask/internal/logevent"
)

// Verbosity selects which messages a Console prints.
type Verbosity int

const (
	// VerbosityQuiet prints high importance messages, warnings and errors.
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal also prints normal importance messages.
	VerbosityNormal
	// VerbosityDetailed prints everything, including debug messages.
	VerbosityDetailed
)

// ParseVerbosity maps a config value to a Verbosity.
func ParseVerbosity(value string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "quiet":
		return VerbosityQuiet, nil
	case "", "normal":
		return VerbosityNormal, nil
	case "detailed", "debug":
		return VerbosityDetailed, nil
	default:
		return VerbosityNormal, fmt.Errorf("invalid verbosity %q (expected quiet|normal|detailed)", value)
	}
}

// Console writes events as text lines.
type Console struct {
	w         io.Writer
	verbosity Verbosity
	palette   palette
}

// NewConsole creates a console destination writing to w.
func NewConsole(w io.Writer, verbosity Verbosity, noColor bool) *Console {
	return &Console{w: w, verbosity: verbosity, palette: paletteFor(w, noColor)}
}

// Deliver prints event if the verbosity allows it.
func (c *Console) Deliver(event logevent.Event) {
	if c.w == nil || !c.shows(event) {
		return
	}
	fmt.Fprintln(c.w, c.format(event))
}

func (c *Console) shows(event logevent.Event) bool {
	if event.Kind != logevent.KindMessage {
		return true
	}
	switch c.verbosity {
	case VerbosityQuiet:
		return event.Importance == logevent.ImportanceHigh
	case VerbosityNormal:
		return event.Importance != logevent.ImportanceLow
	default:
		return true
	}
}

func (c *Console) format(event logevent.Event) string {
	var b strings.Builder
	if label := event.Source.Label(); label != "" {
		b.WriteString(c.palette.render(unitStyle, "["+label+"]"))
		b.WriteByte(' ')
	}
	switch event.Kind {
	case logevent.KindWarning:
		b.WriteString(c.palette.render(warningStyle, "warning:"))
		b.WriteByte(' ')
		b.WriteString(event.Text)
	case logevent.KindError:
		if loc := FormatLocation(event); loc != "" {
			b.WriteString(loc)
			b.WriteString(": ")
		}
		head := "error"
		if event.Code != "" {
			head += " " + event.Code
		}
		b.WriteString(c.palette.render(errorStyle, head+":"))
		b.WriteByte(' ')
		b.WriteString(event.Text)
	default:
		if event.Importance == logevent.ImportanceLow {
			b.WriteString(c.palette.render(debugStyle, event.Text))
		} else {
			b.WriteString(event.Text)
		}
	}
	return b.String()
}

// FormatLocation renders file(line,col) in compiler style, or "" without a file.
func FormatLocation(event logevent.Event) string {
	if event.File == "" {
		return ""
	}
	if event.Line <= 0 {
		return event.File
	}
	loc := event.File + "(" + strconv.Itoa(event.Line)
	if event.Column > 0 {
		loc += "," + strconv.Itoa(event.Column)
	}
	return loc + ")"
}
