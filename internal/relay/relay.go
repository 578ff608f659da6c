package relay

import (
	"context"
	"sync"
	"time"

	"asynctask/internal/logevent"
	"asynctask/internal/sink"
)

// DefaultPollInterval bounds how long Wait sleeps without a signal.
const DefaultPollInterval = 10 * time.Millisecond

// State is the lifecycle state of a relay.
type State int32

const (
	// StateRunning means the owner has not observed cancel or completion yet.
	StateRunning State = iota
	// StateCompleted is terminal: completion was observed.
	StateCompleted
	// StateCancelled is terminal: cancellation was observed.
	StateCancelled
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is Completed or Cancelled.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// Yielder releases a shared execution slot while the owner is blocked in
// Wait and takes it back afterwards.
type Yielder interface {
	Yield()
	Reacquire()
}

// WaitOptions tunes Wait.
type WaitOptions struct {
	// PollInterval bounds each sleep; zero means DefaultPollInterval.
	PollInterval time.Duration
	// Yield asks Wait to call Yielder.Yield before waiting and
	// Yielder.Reacquire on return. Ignored when Yielder is nil.
	Yield   bool
	Yielder Yielder
}

// Relay is the per-unit event channel.
type Relay struct {
	source logevent.Source

	queues          [3]queue // indexed by logevent.Kind, also the drain priority
	cancelRequested signal
	completed       signal
	wake            chan struct{}

	stateMu sync.Mutex
	state   State
	done    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a running relay whose cancellation token derives from parent.
func New(parent context.Context, source logevent.Source) *Relay {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Relay{
		source: source,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context is tripped when the owner observes a cancel request.
func (r *Relay) Context() context.Context {
	return r.ctx
}

// Source returns the identity stamped on events.
func (r *Relay) Source() logevent.Source {
	return r.source
}

// State returns the current state.
func (r *Relay) State() State {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.state
}

// Done is closed once the relay reaches a terminal state.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

// Pending returns the number of queued, undelivered events.
func (r *Relay) Pending() int {
	n := 0
	for i := range r.queues {
		n += r.queues[i].len()
	}
	return n
}

// Enqueue queues event for the owner. Safe from any goroutine.
//
// Once the relay is terminal the event is still queued but no signal is
// raised; it is delivered by the next Wait.
func (r *Relay) Enqueue(event logevent.Event) {
	if event.Source == (logevent.Source{}) {
		event.Source = r.source
	}
	q := &r.queues[kindIndex(event.Kind)]
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, event)
	r.stateMu.Lock()
	if r.state == StateRunning && q.ready.raise() {
		r.notify()
	}
	r.stateMu.Unlock()
}

// RequestCancel asks the owner to stop waiting and trip the token.
// It is a no-op once the relay is terminal.
func (r *Relay) RequestCancel() {
	r.raiseTerminal(&r.cancelRequested)
}

// MarkCompleted tells the owner the work is done.
// It is a no-op once the relay is terminal.
func (r *Relay) MarkCompleted() {
	r.raiseTerminal(&r.completed)
}

func (r *Relay) raiseTerminal(s *signal) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	if r.state != StateRunning {
		return
	}
	if s.raise() {
		r.notify()
	}
}

func (r *Relay) notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func kindIndex(kind logevent.Kind) int {
	switch kind {
	case logevent.KindMessage, logevent.KindWarning, logevent.KindError:
		return int(kind)
	default:
		return int(logevent.KindMessage)
	}
}

// drain delivers every queued event of one kind in FIFO order.
func (r *Relay) drain(kind logevent.Kind, rep *sink.Reporter) {
	for _, event := range r.queues[kind].take() {
		rep.Deliver(event)
	}
}

// flush drains all queues in priority order.
func (r *Relay) flush(rep *sink.Reporter) {
	r.drain(logevent.KindMessage, rep)
	r.drain(logevent.KindWarning, rep)
	r.drain(logevent.KindError, rep)
}

// finish records the terminal state (first caller wins) and flushes.
func (r *Relay) finish(state State, rep *sink.Reporter) State {
	r.stateMu.Lock()
	if r.state == StateRunning {
		r.state = state
		close(r.done)
	}
	final := r.state
	r.stateMu.Unlock()
	r.flush(rep)
	return final
}
