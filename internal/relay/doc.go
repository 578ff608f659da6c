// Package relay carries events from worker goroutines to the single owner
// goroutine of a unit.
//
// Workers call Enqueue, RequestCancel and MarkCompleted; none of them block
// beyond a short critical section. The owner calls Wait, which services the
// relay's five signals in a fixed order:
//
//	MessageReady, WarningReady, ErrorReady, CancelRequested, Completed
//
// A ready signal drains its queue into the owner's reporter and restarts the
// scan from the top, so every event queued before cancel or completion is
// delivered before Wait returns. When Wait decides to stop it marks the relay
// terminal and makes one last pass over all three queues. Events that arrive
// after that stay queued until the next Wait, which on a terminal relay only
// flushes and returns.
package relay
