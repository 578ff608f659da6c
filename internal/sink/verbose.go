package sink

import (
	"fmt"
	"io"
)

const verbosePrefix = "[verbose]"

// Verbose writes diagnostic lines for the operator. The zero value is disabled.
type Verbose struct {
	enabled bool
	w       io.Writer
	palette palette
}

// NewVerbose returns a diagnostics writer; it is a no-op unless enabled.
func NewVerbose(enabled bool, w io.Writer, noColor bool) Verbose {
	return Verbose{enabled: enabled && w != nil, w: w, palette: paletteFor(w, noColor)}
}

// Printf writes one prefixed diagnostic line.
func (v Verbose) Printf(format string, args ...any) {
	if !v.enabled {
		return
	}
	line := fmt.Sprintf(format, args...)
	fmt.Fprintf(v.w, "%s %s\n", v.palette.render(prefixStyle, verbosePrefix), line)
}
