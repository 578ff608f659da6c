package logevent

import (
	"fmt"
	"runtime"
	"strings"
)

// Location is a best-effort source position.
type Location struct {
	File   string
	Line   int
	Column int
}

// FromError converts err into an error event located at the caller of
// FromError. skip adds extra frames to step over wrappers.
func FromError(err error, skip int) Event {
	text := "<nil error>"
	if err != nil {
		text = err.Error()
	}
	loc := callerLocation(skip + 2)
	e := Error("", loc.File, loc.Line, text)
	e.Column = loc.Column
	return e
}

// FromPanic converts a recovered panic value into an error event. It must be
// called from the deferred function that recovered, so that the panicking
// frame is still on the stack.
func FromPanic(value any) Event {
	text := fmt.Sprintf("panic: %v", value)
	if err, ok := value.(error); ok {
		text = "panic: " + err.Error()
	}
	loc := panicLocation()
	e := Error("", loc.File, loc.Line, text)
	e.Column = loc.Column
	return e
}

// callerLocation reports the frame skip levels above its caller. Any failure
// yields an empty location.
func callerLocation(skip int) (loc Location) {
	defer func() {
		if recover() != nil {
			loc = Location{}
		}
	}()
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{}
	}
	return Location{File: file, Line: line}
}

// panicLocation walks the stack past the runtime's panic machinery and
// returns the first user frame, which is where the panic was raised.
func panicLocation() (loc Location) {
	defer func() {
		if recover() != nil {
			loc = Location{}
		}
	}()
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	if n == 0 {
		return Location{}
	}
	frames := runtime.CallersFrames(pcs[:n])
	sawPanic := false
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, "runtime.") {
			if frame.Function == "runtime.gopanic" || strings.HasPrefix(frame.Function, "runtime.panic") {
				sawPanic = true
			}
		} else if sawPanic && frame.File != "" {
			return Location{File: frame.File, Line: frame.Line}
		}
		if !more {
			break
		}
	}
	return Location{}
}
