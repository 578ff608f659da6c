package relay

import "sync/atomic"

// signal is a level-triggered flag. Any goroutine may set it; only the owner
// observes and clears it.
type signal struct {
	set atomic.Bool
}

func (s *signal) raise() bool {
	return !s.set.Swap(true)
}

func (s *signal) clear() {
	s.set.Store(false)
}

func (s *signal) isSet() bool {
	return s.set.Load()
}
