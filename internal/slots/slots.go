// Package slots limits how many units run work at once. A held Slot can be
// lent back to the pool while its owner blocks waiting on other units.
package slots

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool hands out a fixed number of execution slots.
type Pool struct {
	size int64
	sem  *semaphore.Weighted
}

// New creates a pool of size slots. size below one is treated as one.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: int64(size), sem: semaphore.NewWeighted(int64(size))}
}

// Size returns the number of slots.
func (p *Pool) Size() int { return int(p.size) }

// Acquire blocks until a slot is free or ctx ends.
func (p *Pool) Acquire(ctx context.Context) (*Slot, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire slot: %w", err)
	}
	return &Slot{pool: p, held: true}, nil
}

// TryAcquire returns a slot only when one is free now.
func (p *Pool) TryAcquire() (*Slot, bool) {
	if !p.sem.TryAcquire(1) {
		return nil, false
	}
	return &Slot{pool: p, held: true}, true
}

// Slot is one held execution slot. It satisfies relay.Yielder.
type Slot struct {
	pool *Pool
	mu   sync.Mutex
	held bool
	done bool
}

// Yield returns the slot to the pool until Reacquire.
func (s *Slot) Yield() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.held || s.done {
		return
	}
	s.held = false
	s.pool.sem.Release(1)
}

// Reacquire blocks until the slot is held again.
func (s *Slot) Reacquire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held || s.done {
		return
	}
	// Acquire with a background context cannot fail.
	_ = s.pool.sem.Acquire(context.Background(), 1)
	s.held = true
}

// Held reports whether the slot currently counts against the pool.
func (s *Slot) Held() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// Release gives the slot back for good. Safe to call more than once.
func (s *Slot) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	if s.held {
		s.held = false
		s.pool.sem.Release(1)
	}
}
