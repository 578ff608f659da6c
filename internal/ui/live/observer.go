package live

import (
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"asynctask/internal/logevent"
	"asynctask/internal/sink"
)

// Controller runs the live UI. It is a sink and a unit observer. Events are
// dropped when the UI falls behind, except the session outcome, which waits
// briefly for room.
type Controller struct {
	events  chan Event
	program *tea.Program
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// endTimeout bounds how long SessionEnd waits for room in a full buffer.
const endTimeout = 250 * time.Millisecond

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// SessionStart resets the view for a new session.
func (c *Controller) SessionStart(sessionID string) {
	c.send(Event{Kind: EventSessionStart, SessionID: sessionID})
}

// Deliver forwards a reported event to the UI.
func (c *Controller) Deliver(event logevent.Event) {
	c.send(Event{Kind: EventLog, Log: event})
}

// ObserveUnit forwards a unit lifecycle change to the UI.
func (c *Controller) ObserveUnit(state sink.UnitState) {
	c.send(Event{Kind: EventUnit, Unit: state})
}

// SessionEnd reports the outcome and closes the UI. The outcome waits up to
// endTimeout for buffer space instead of being dropped.
func (c *Controller) SessionEnd(success bool) {
	c.deliver(Event{Kind: EventSessionEnd, Success: success}, endTimeout)
	c.Close()
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	c.deliver(event, 0)
}

// deliver enqueues event, waiting at most timeout when the buffer is full.
// Events sent after Close are dropped.
func (c *Controller) deliver(event Event, timeout time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if timeout <= 0 {
		select {
		case c.events <- event:
		default:
		}
		return
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case c.events <- event:
	case <-timer.C:
	}
}
