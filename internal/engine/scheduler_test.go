package engine_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-clock/internal/engine"
)

func TestClockScheduler_DispatchesOnExpiry(t *testing.T) {
	fc := clockwork.NewFakeClock()
	var dispatched atomic.Int32
	done := make(chan struct{})

	s := engine.NewClockScheduler(fc, func(fn func()) {
		dispatched.Add(1)
		fn()
	})
	s.PostDelayed(func() { close(done) }, time.Second)

	fc.Advance(time.Second)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback did not run after the delay elapsed")
	}
	assert.Equal(t, int32(1), dispatched.Load(), "callback goes through the dispatcher")
}

func TestClockScheduler_StopPreventsCallback(t *testing.T) {
	fc := clockwork.NewFakeClock()
	var ran atomic.Bool

	s := engine.NewClockScheduler(fc, nil)
	timer := s.PostDelayed(func() { ran.Store(true) }, time.Second)

	require.True(t, timer.Stop())
	fc.Advance(2 * time.Second)

	assert.Never(t, ran.Load, 50*time.Millisecond, 5*time.Millisecond)
	assert.False(t, timer.Stop(), "second stop reports nothing to cancel")
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "tick", engine.EventTick.String())
	assert.Equal(t, "time_changed", engine.EventTimeChanged.String())
	assert.Equal(t, "timezone_changed", engine.EventTimeZoneChanged.String())
	assert.Equal(t, "unknown", engine.EventKind(0).String())
}
