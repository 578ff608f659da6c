package relay

import (
	"sync"

	"asynctask/internal/logevent"
)

// queue holds events of one kind in arrival order.
type queue struct {
	mu    sync.Mutex
	items []logevent.Event
	ready signal
}

// take removes every queued event and clears the ready signal in one
// critical section, so an append racing the drain either lands in the
// returned batch or raises the signal again afterwards.
func (q *queue) take() []logevent.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	q.ready.clear()
	return items
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
