// Package build carries the state of one build session explicitly. Every
// operation that needs the registry, the reporter or the execution slots
// takes a *Context instead of reaching for a global.
package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asynctask/internal/registry"
	"asynctask/internal/relay"
	"asynctask/internal/session"
	"asynctask/internal/sink"
	"asynctask/internal/slots"
	"asynctask/internal/unit"
)

// Options tunes a session.
type Options struct {
	// PollInterval bounds each wait loop sleep. Zero uses the relay default.
	PollInterval time.Duration
	// Jobs is the number of execution slots shared by the owner and workers.
	Jobs int
	// Yield makes the owner hold a slot and lend it out while it waits.
	Yield bool
	// SessionID overrides the generated session ID.
	SessionID string
}

// Context is one build session as seen by its owner goroutine.
type Context struct {
	Session  *session.Session
	Registry *registry.Registry
	Reporter *sink.Reporter
	Slots    *slots.Pool
	Options  Options

	owner *slots.Slot
}

// Begin opens a session on host and creates its registry.
func Begin(host *session.Host, rep *sink.Reporter, opts Options) (*Context, error) {
	if host == nil {
		return nil, errors.New("build: host is required")
	}
	if rep == nil {
		rep = sink.NewReporter(nil)
	}
	var sess *session.Session
	if opts.SessionID != "" {
		sess = host.BeginWithID(opts.SessionID)
	} else {
		var err error
		if sess, err = host.Begin(); err != nil {
			return nil, err
		}
	}
	pool := slots.New(opts.Jobs)
	opts.Jobs = pool.Size()

	bc := &Context{
		Session:  sess,
		Reporter: rep,
		Slots:    pool,
		Options:  opts,
	}
	if opts.Yield {
		owner, ok := pool.TryAcquire()
		if !ok {
			return nil, errors.New("build: no slot for the session owner")
		}
		bc.owner = owner
	}
	bc.Registry = registry.GetOrCreate(sess, rep, bc.WaitOptions())
	return bc, nil
}

// WaitOptions returns the options owner waits should use.
func (c *Context) WaitOptions() relay.WaitOptions {
	opts := relay.WaitOptions{PollInterval: c.Options.PollInterval}
	if c.owner != nil {
		opts.Yield = true
		opts.Yielder = c.owner
	}
	return opts
}

// Start creates a unit, registers it under category and runs fn on a worker
// goroutine. The unit's token derives from the registry's.
func (c *Context) Start(name, category string, fn unit.Func) (*unit.Unit, error) {
	if category == "" {
		category = registry.DefaultCategory
	}
	u := unit.New(unit.WithName(name), unit.WithParent(c.Registry.Context()))
	c.Registry.Register(u, category)
	c.Reporter.ObserveUnit(sink.UnitState{
		Source:   u.Source(),
		Category: category,
		State:    relay.StateRunning.String(),
	})
	if err := u.Go(fn); err != nil {
		u.Complete()
		return u, fmt.Errorf("start %s: %w", u.Label(), err)
	}
	return u, nil
}

// Close shuts the registry down through the session and releases the
// owner's slot.
func (c *Context) Close(ctx context.Context) error {
	err := c.Session.Close(ctx)
	if c.owner != nil {
		c.owner.Release()
	}
	return err
}
