// Package session provides the session-scoped object store a build runs in.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Lifetime says how long a registered value lives.
type Lifetime int

const (
	// LifetimeSession values are dropped when the session closes.
	LifetimeSession Lifetime = iota
	// LifetimeProcess values outlive individual sessions.
	LifetimeProcess
)

func (l Lifetime) String() string {
	switch l {
	case LifetimeSession:
		return "session"
	case LifetimeProcess:
		return "process"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

// Store is a keyed slot store. Access is owner-only; implementations need not
// be safe for concurrent use.
type Store interface {
	Registered(key string, lifetime Lifetime) (any, bool)
	Register(key string, value any, lifetime Lifetime, allowEarlyCollection bool)
}

// Disposer is implemented by session values that release resources when the
// session closes.
type Disposer interface {
	Dispose(ctx context.Context) error
}

// ErrClosed is returned when closing a session twice.
var ErrClosed = errors.New("session: already closed")

// Host keeps process-lifetime values and hands out sessions.
type Host struct {
	mu      sync.Mutex
	process map[string]any
}

// NewHost creates an empty host.
func NewHost() *Host {
	return &Host{process: map[string]any{}}
}

// Begin starts a new session with a fresh ID.
func (h *Host) Begin() (*Session, error) {
	id, err := NewID()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	return h.BeginWithID(id), nil
}

// BeginWithID starts a session with a caller-chosen ID.
func (h *Host) BeginWithID(id string) *Session {
	return &Session{id: id, host: h, values: map[string]entry{}}
}

type entry struct {
	value     any
	earlyFree bool
}

// Session is one build's store. Process-lifetime keys are delegated to the
// host.
type Session struct {
	id     string
	host   *Host
	values map[string]entry
	order  []string
	closed bool
}

// ID identifies the session.
func (s *Session) ID() string { return s.id }

// Registered returns the value stored under key for lifetime.
func (s *Session) Registered(key string, lifetime Lifetime) (any, bool) {
	if lifetime == LifetimeProcess {
		s.host.mu.Lock()
		defer s.host.mu.Unlock()
		v, ok := s.host.process[key]
		return v, ok
	}
	e, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Register stores value under key. A session value replacing an earlier one
// keeps its first disposal position.
func (s *Session) Register(key string, value any, lifetime Lifetime, allowEarlyCollection bool) {
	if lifetime == LifetimeProcess {
		s.host.mu.Lock()
		s.host.process[key] = value
		s.host.mu.Unlock()
		return
	}
	if _, exists := s.values[key]; !exists {
		s.order = append(s.order, key)
	}
	s.values[key] = entry{value: value, earlyFree: allowEarlyCollection}
}

// Collect drops session values registered with allowEarlyCollection that are
// not Disposers, and returns how many were dropped.
func (s *Session) Collect() int {
	dropped := 0
	kept := s.order[:0]
	for _, key := range s.order {
		e := s.values[key]
		if _, disposable := e.value.(Disposer); e.earlyFree && !disposable {
			delete(s.values, key)
			dropped++
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept
	return dropped
}

// Close disposes session values in reverse registration order and empties
// the session. All disposal errors are returned joined.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	var errs []error
	for i := len(s.order) - 1; i >= 0; i-- {
		key := s.order[i]
		d, ok := s.values[key].value.(Disposer)
		if !ok {
			continue
		}
		if err := d.Dispose(ctx); err != nil {
			errs = append(errs, fmt.Errorf("dispose %s: %w", key, err))
		}
	}
	s.values = map[string]entry{}
	s.order = nil
	return errors.Join(errs...)
}
