// Package unit models one background work item: an identity, the relay that
// carries its events to the owner, and a terminal state reached exactly once.
package unit

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"asynctask/internal/logevent"
	"asynctask/internal/relay"
	"asynctask/internal/sink"
)

// ErrAlreadyStarted is returned by Go when the unit's work was started before.
var ErrAlreadyStarted = errors.New("unit: already started")

// Func is the work run on a worker goroutine. ctx is the unit's cancellation
// token. A returned error is logged as an error event unless it is the
// token's own cancellation. The returning frame is gone by then, so such
// events carry no location; work that wants one logs through
// Logger.ErrorFromErr at the failure site and returns nil.
type Func func(ctx context.Context, log Logger) error

// Unit is a handle on one background work item.
type Unit struct {
	id      string
	name    string
	relay   *relay.Relay
	log     *logger
	started atomic.Bool
}

type options struct {
	name   string
	parent context.Context
}

// Option configures New.
type Option func(*options)

// WithName sets a display name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithParent derives the unit's cancellation token from ctx.
func WithParent(ctx context.Context) Option {
	return func(o *options) { o.parent = ctx }
}

// New creates a running unit.
func New(opts ...Option) *Unit {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	u := &Unit{id: uuid.NewString(), name: o.name}
	u.relay = relay.New(o.parent, u.Source())
	u.log = newQueueLogger(u)
	return u
}

// ID returns the unit's unique identifier.
func (u *Unit) ID() string { return u.id }

// Name returns the display name, possibly empty.
func (u *Unit) Name() string { return u.name }

// Source returns the identity stamped on the unit's events.
func (u *Unit) Source() logevent.Source {
	return logevent.Source{UnitID: u.id, UnitName: u.name}
}

// Label returns the name, or a short id when unnamed.
func (u *Unit) Label() string { return u.Source().Label() }

// Context is tripped when the owner observes a cancel request.
func (u *Unit) Context() context.Context { return u.relay.Context() }

// State returns the current lifecycle state.
func (u *Unit) State() relay.State { return u.relay.State() }

// Done is closed when the unit reaches a terminal state.
func (u *Unit) Done() <-chan struct{} { return u.relay.Done() }

// Log returns the worker-side logger. Safe from any goroutine.
func (u *Unit) Log() Logger { return u.log }

// OwnerLog returns a logger that reports straight to rep. Only the owner of
// rep may use it.
func (u *Unit) OwnerLog(rep *sink.Reporter) Logger {
	return OwnerLogger(u.Source(), rep)
}

// OwnerLogger returns a logger that reports straight to rep under source,
// for owner-side code that has no unit of its own.
func OwnerLogger(source logevent.Source, rep *sink.Reporter) Logger {
	return newDirectLogger(source, rep)
}

// Cancel requests cancellation. No-op once terminal.
func (u *Unit) Cancel() { u.relay.RequestCancel() }

// Complete signals that the work is done. No-op once terminal.
func (u *Unit) Complete() { u.relay.MarkCompleted() }

// Go runs fn on a new goroutine. A panic or returned error becomes an error
// event; either way the unit is completed when fn returns.
func (u *Unit) Go(fn Func) error {
	if fn == nil {
		return errors.New("unit: nil func")
	}
	if !u.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	ctx := u.Context()
	go func() {
		defer u.Complete()
		defer func() {
			if p := recover(); p != nil {
				u.relay.Enqueue(logevent.FromPanic(p).WithSource(u.Source()))
			}
		}()
		err := fn(ctx, u.log)
		if err == nil {
			return
		}
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			u.log.Debugf("stopped: %v", err)
			return
		}
		u.log.Error(err.Error())
	}()
	return nil
}

// Wait blocks the owner until the unit is terminal, flushing its events to
// rep. See relay.Relay.Wait.
func (u *Unit) Wait(ctx context.Context, rep *sink.Reporter, opts relay.WaitOptions) relay.State {
	return u.relay.Wait(ctx, rep, opts)
}

// Execute waits for the unit and reports whether no errors have been
// reported through rep.
func (u *Unit) Execute(ctx context.Context, rep *sink.Reporter, opts relay.WaitOptions) bool {
	u.Wait(ctx, rep, opts)
	return !rep.HasLoggedErrors()
}
