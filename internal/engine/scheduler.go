package engine

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a pending delayed callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already
	// started or was handed to the dispatcher.
	Stop() bool
}

// Scheduler posts one-shot callbacks onto the host's UI thread.
type Scheduler interface {
	PostDelayed(fn func(), d time.Duration) Timer
}

// ClockScheduler implements Scheduler with clockwork timers. Expired timers
// hand their callback to dispatch, which must run it on the UI thread.
type ClockScheduler struct {
	clock    clockwork.Clock
	dispatch func(func())
}

// NewClockScheduler creates a scheduler. A nil dispatch runs callbacks on the
// timer goroutine, which is only appropriate for headless use.
func NewClockScheduler(clock clockwork.Clock, dispatch func(func())) *ClockScheduler {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &ClockScheduler{clock: clock, dispatch: dispatch}
}

// PostDelayed schedules fn after d.
func (s *ClockScheduler) PostDelayed(fn func(), d time.Duration) Timer {
	return s.clock.AfterFunc(d, func() { s.dispatch(fn) })
}
