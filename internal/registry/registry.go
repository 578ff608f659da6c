// Package registry groups a session's background units by category so that
// later steps can wait on them, and waits on all of them at shutdown.
package registry

import (
	"context"
	"sort"
	"sync"

	"asynctask/internal/relay"
	"asynctask/internal/session"
	"asynctask/internal/sink"
	"asynctask/internal/unit"
)

// DefaultCategory receives units registered without a category.
const DefaultCategory = "default"

// StoreKey is the session store key the registry lives under.
const StoreKey = "asynctask.registry"

// Registry maps category names to the units registered under them.
//
// Register, Lookup, Count and Categories are safe for concurrent use.
// Shutdown reports through the registry's Reporter and must run on the
// owner goroutine.
type Registry struct {
	rep  *sink.Reporter
	wait relay.WaitOptions

	mu      sync.RWMutex
	buckets map[string]*bucket

	ctx      context.Context
	cancel   context.CancelFunc
	shutdown sync.Once
}

// bucket is an append-only list of units.
type bucket struct {
	mu    sync.Mutex
	units []*unit.Unit
}

// New creates an empty registry reporting to rep. wait configures the waits
// performed during shutdown.
func New(rep *sink.Reporter, wait relay.WaitOptions) *Registry {
	if rep == nil {
		rep = sink.NewReporter(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		rep:     rep,
		wait:    wait,
		buckets: map[string]*bucket{},
		ctx:     ctx,
		cancel:  cancel,
	}
}

// GetOrCreate returns the registry stored in store, creating and storing it
// with session lifetime on first use. Call it from the session owner only;
// the store is not locked.
func GetOrCreate(store session.Store, rep *sink.Reporter, wait relay.WaitOptions) *Registry {
	if existing, ok := store.Registered(StoreKey, session.LifetimeSession); ok {
		if reg, ok := existing.(*Registry); ok {
			return reg
		}
	}
	reg := New(rep, wait)
	store.Register(StoreKey, reg, session.LifetimeSession, false)
	return reg
}

// Context is cancelled once Shutdown has waited every unit.
func (r *Registry) Context() context.Context {
	return r.ctx
}

// Register appends u to category. An empty category means DefaultCategory.
func (r *Registry) Register(u *unit.Unit, category string) {
	if u == nil {
		return
	}
	if category == "" {
		category = DefaultCategory
	}
	b := r.bucketFor(category)
	b.mu.Lock()
	b.units = append(b.units, u)
	b.mu.Unlock()
}

func (r *Registry) bucketFor(category string) *bucket {
	r.mu.RLock()
	b, ok := r.buckets[category]
	r.mu.RUnlock()
	if ok {
		return b
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.buckets[category]; ok {
		return b
	}
	b = &bucket{}
	r.buckets[category] = b
	return b
}

// Lookup returns a snapshot of the units in category, empty when unknown.
func (r *Registry) Lookup(category string) []*unit.Unit {
	r.mu.RLock()
	b, ok := r.buckets[category]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*unit.Unit(nil), b.units...)
}

// Count returns the number of known categories.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buckets)
}

// Categories returns the known category names sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.buckets))
	for name := range r.buckets {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Shutdown waits every registered unit to a terminal state, flushing its
// events, then cancels the registry context. Later calls return at once.
func (r *Registry) Shutdown(ctx context.Context) {
	r.shutdown.Do(func() {
		defer r.cancel()
		for _, category := range r.Categories() {
			for _, u := range r.Lookup(category) {
				state := u.Wait(ctx, r.rep, r.wait)
				r.rep.ObserveUnit(sink.UnitState{
					Source:   u.Source(),
					Category: category,
					State:    state.String(),
				})
			}
		}
	})
}

// Dispose shuts the registry down when its session closes.
func (r *Registry) Dispose(ctx context.Context) error {
	r.Shutdown(ctx)
	return nil
}
