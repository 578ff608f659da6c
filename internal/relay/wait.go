package relay

import (
	"context"
	"time"

	"asynctask/internal/logevent"
	"asynctask/internal/sink"
)

// Wait runs the owner loop until cancellation or completion and returns the
// terminal state. It must only be called by the owner of rep.
//
// If ctx ends first, Wait treats it as a cancel request. Calling Wait on a
// terminal relay flushes anything still queued and returns immediately.
func (r *Relay) Wait(ctx context.Context, rep *sink.Reporter, opts WaitOptions) State {
	if ctx == nil {
		ctx = context.Background()
	}
	if state := r.State(); state.Terminal() {
		r.flush(rep)
		return state
	}

	if opts.Yield && opts.Yielder != nil {
		opts.Yielder.Yield()
		defer opts.Yielder.Reacquire()
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		switch {
		case r.queues[logevent.KindMessage].ready.isSet():
			r.drain(logevent.KindMessage, rep)
			continue
		case r.queues[logevent.KindWarning].ready.isSet():
			r.drain(logevent.KindWarning, rep)
			continue
		case r.queues[logevent.KindError].ready.isSet():
			r.drain(logevent.KindError, rep)
			continue
		case r.cancelRequested.isSet():
			r.cancel()
			return r.finish(StateCancelled, rep)
		case r.completed.isSet():
			return r.finish(StateCompleted, rep)
		}

		timer.Reset(interval)
		select {
		case <-r.wake:
		case <-timer.C:
		case <-ctx.Done():
			r.RequestCancel()
		}
	}
}
