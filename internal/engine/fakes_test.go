package engine_test

import (
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tartampluch/go-clock/internal/engine"
)

// -----------------------------------------------------------------------------
// Canvas & Drawables
// -----------------------------------------------------------------------------

// recordingCanvas logs every call so tests can assert the paint sequence.
type recordingCanvas struct {
	ops   []string
	depth int
}

func (c *recordingCanvas) Save() int {
	checkpoint := c.depth
	c.depth++
	c.ops = append(c.ops, "save")
	return checkpoint
}

func (c *recordingCanvas) RestoreToCount(checkpoint int) {
	c.depth = checkpoint
	c.ops = append(c.ops, fmt.Sprintf("restore %d", checkpoint))
}

func (c *recordingCanvas) Translate(dx, dy float64) {
	c.ops = append(c.ops, fmt.Sprintf("translate %g %g", dx, dy))
}

func (c *recordingCanvas) Scale(sx, sy, px, py float64) {
	c.ops = append(c.ops, fmt.Sprintf("scale %g %g", sx, sy))
}

func (c *recordingCanvas) Rotate(degrees, px, py float64) {
	c.ops = append(c.ops, fmt.Sprintf("rotate %g", degrees))
}

func (c *recordingCanvas) DrawImage(img image.Image, dst image.Rectangle) {}

// rotations returns the rotate arguments in call order.
func (c *recordingCanvas) rotations() []string {
	var out []string
	for _, op := range c.ops {
		if len(op) > 7 && op[:7] == "rotate " {
			out = append(out, op[7:])
		}
	}
	return out
}

type fakeDrawable struct {
	name   string
	w, h   int
	bounds image.Rectangle
}

func newFakeDrawable(name string, w, h int) *fakeDrawable {
	return &fakeDrawable{name: name, w: w, h: h}
}

func (d *fakeDrawable) IntrinsicWidth() int { return d.w }
func (d *fakeDrawable) IntrinsicHeight() int { return d.h }
func (d *fakeDrawable) SetBounds(bounds image.Rectangle) { d.bounds = bounds }
func (d *fakeDrawable) Draw(c engine.Canvas) {
	if rc, ok := c.(*recordingCanvas); ok {
		rc.ops = append(rc.ops, "draw "+d.name)
	}
}

// -----------------------------------------------------------------------------
// Scheduler
// -----------------------------------------------------------------------------

// fakeTimer models a host message-queue entry. Once dispatched, Stop can no
// longer prevent the callback from running.
type fakeTimer struct {
	fn         func()
	delay      time.Duration
	stopped    bool
	dispatched bool
	ran        bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.dispatched {
		return false
	}
	t.stopped = true
	return true
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) PostDelayed(fn func(), d time.Duration) engine.Timer {
	t := &fakeTimer{fn: fn, delay: d}
	s.timers = append(s.timers, t)
	return t
}

// live returns timers that were neither stopped nor run.
func (s *fakeScheduler) live() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.ran {
			out = append(out, t)
		}
	}
	return out
}

// fireLive runs every live timer once, as a second boundary passing would.
func (s *fakeScheduler) fireLive() int {
	pending := s.live()
	for _, t := range pending {
		t.dispatched = true
		t.ran = true
		t.fn()
	}
	return len(pending)
}

// -----------------------------------------------------------------------------
// Events
// -----------------------------------------------------------------------------

type fakeSub struct {
	fn    func(engine.Event)
	kinds []engine.EventKind
}

type fakeEvents struct {
	next int
	subs map[int]fakeSub
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{subs: make(map[int]fakeSub)}
}

func (e *fakeEvents) Subscribe(fn func(engine.Event), kinds ...engine.EventKind) func() {
	id := e.next
	e.next++
	e.subs[id] = fakeSub{fn: fn, kinds: kinds}
	return func() { delete(e.subs, id) }
}

func (e *fakeEvents) emit(ev engine.Event) {
	for _, s := range e.subs {
		if slices.Contains(s.kinds, ev.Kind) {
			s.fn(ev)
		}
	}
}

// -----------------------------------------------------------------------------
// Observer
// -----------------------------------------------------------------------------

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) Refreshed(trigger engine.Trigger) { m.Called(trigger) }
func (m *MockObserver) TickScheduled(delay time.Duration) { m.Called(delay) }
func (m *MockObserver) TickCancelled() { m.Called() }
func (m *MockObserver) Attached(attached bool) { m.Called(attached) }
