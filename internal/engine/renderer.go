package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-clock/internal/config"
)

// ErrMissingDrawable is returned by New when one of the four face assets is nil.
var ErrMissingDrawable = errors.New(config.ErrMissingDrawable)

// Options configures a Renderer. The four drawables are mandatory.
type Options struct {
	Dial       Drawable
	HourHand   Drawable
	MinuteHand Drawable
	SecondHand Drawable

	// DescriptionPattern is a Go reference layout used for the accessibility text.
	DescriptionPattern string

	// SecondsEnabled draws the second hand and drives a second-aligned tick.
	SecondsEnabled bool

	// TimeZone pins the displayed time. Nil follows the system zone.
	TimeZone *time.Location

	// SystemZone is the host's default zone. Nil means time.Local.
	SystemZone *time.Location

	// MinWidth and MinHeight are the host's suggested minimum size.
	MinWidth  int
	MinHeight int

	Clock     Clock
	Scheduler Scheduler
	Events    EventSource
	Observer  Observer

	// Invalidate requests a repaint from the host.
	Invalidate func()

	// OnDescription receives the accessibility text after each refresh.
	OnDescription func(string)
}

// Renderer is the analog clock face: it keeps the current time, schedules
// its own refreshes and paints the dial and hands.
//
// All methods must be called from the host's UI thread.
type Renderer struct {
	dial       Drawable
	hourHand   Drawable
	minuteHand Drawable
	secondHand Drawable

	pattern        string
	secondsEnabled bool
	minWidth       int
	minHeight      int

	clock         Clock
	scheduler     Scheduler
	events        EventSource
	observer      Observer
	invalidate    func()
	onDescription func(string)

	fixedZone   *time.Location
	systemZone  *time.Location
	now         time.Time
	description string

	attached    bool
	unsubscribe func()
	pending     Timer
	// tickSeq invalidates tick callbacks already handed to the dispatcher.
	tickSeq uint64
}

// New validates the assets, centers them on the origin and returns a detached renderer.
func New(opts Options) (*Renderer, error) {
	assets := []struct {
		name string
		d    Drawable
	}{
		{"dial", opts.Dial},
		{"hour hand", opts.HourHand},
		{"minute hand", opts.MinuteHand},
		{"second hand", opts.SecondHand},
	}
	for _, a := range assets {
		if a.d == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingDrawable, a.name)
		}
	}
	for _, a := range assets {
		centerDrawable(a.d)
	}

	r := &Renderer{
		dial:           opts.Dial,
		hourHand:       opts.HourHand,
		minuteHand:     opts.MinuteHand,
		secondHand:     opts.SecondHand,
		pattern:        opts.DescriptionPattern,
		secondsEnabled: opts.SecondsEnabled,
		minWidth:       opts.MinWidth,
		minHeight:      opts.MinHeight,
		clock:          opts.Clock,
		scheduler:      opts.Scheduler,
		events:         opts.Events,
		observer:       opts.Observer,
		invalidate:     opts.Invalidate,
		onDescription:  opts.OnDescription,
		fixedZone:      opts.TimeZone,
		systemZone:     opts.SystemZone,
	}
	if r.pattern == "" {
		r.pattern = config.DefaultDescPattern
	}
	if r.systemZone == nil {
		r.systemZone = time.Local
	}
	if r.clock == nil {
		r.clock = defaultClock()
	}
	if r.scheduler == nil {
		r.scheduler = NewClockScheduler(defaultClockwork(), nil)
	}
	if r.observer == nil {
		r.observer = nopObserver{}
	}
	r.now = r.clock.Now().In(r.zone())
	r.description = r.now.Format(r.pattern)
	return r, nil
}

// Start attaches the renderer: it subscribes to time events, refreshes and,
// when seconds are enabled, starts the second-aligned tick chain.
// Calling Start while attached does nothing.
func (r *Renderer) Start() {
	if r.attached {
		return
	}
	r.attached = true
	r.observer.Attached(true)

	if r.events != nil {
		r.unsubscribe = r.events.Subscribe(r.OnEvent, EventTick, EventTimeChanged, EventTimeZoneChanged)
	}

	r.now = r.clock.Now().In(r.zone())
	r.refresh(TriggerAttach)

	if r.secondsEnabled {
		r.scheduleNextTick()
	}

	slog.Debug(config.MsgClockAttached,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyZone, r.now.Location().String(),
		config.LogKeySeconds, r.secondsEnabled,
	)
}

// Stop detaches the renderer. The pending tick is cancelled before Stop
// returns, and a callback already queued on the UI thread becomes a no-op.
// Stop is safe to call at any time, any number of times.
func (r *Renderer) Stop() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	r.cancelTick()

	if !r.attached {
		return
	}
	r.attached = false
	r.observer.Attached(false)

	slog.Debug(config.MsgClockDetached, config.LogKeyComponent, config.CompEngine)
}

// Attached reports whether Start has been called without a matching Stop.
func (r *Renderer) Attached() bool {
	return r.attached
}

// OnEvent handles a host notification. Zone changes rebind the current time
// unless a fixed zone is configured; every event refreshes.
func (r *Renderer) OnEvent(ev Event) {
	if !r.attached {
		slog.Debug(config.MsgClockEventLate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyEvent, ev.Kind.String(),
		)
		return
	}

	if ev.Kind == EventTimeZoneChanged {
		if r.fixedZone == nil {
			r.systemZone = ResolveZone(ev.ZoneID)
			r.now = r.now.In(r.systemZone)
			slog.Info(config.MsgClockZone,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyZone, r.systemZone.String(),
			)
		} else {
			slog.Debug(config.MsgClockZoneIgnored,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyFixed, r.fixedZone.String(),
			)
		}
	}

	r.refresh(triggerFor(ev.Kind))
}

// SetTimeZone pins the displayed time to loc, or follows the system zone again when loc is nil.
func (r *Renderer) SetTimeZone(loc *time.Location) {
	r.fixedZone = loc
	r.now = r.now.In(r.zone())
	r.refresh(TriggerZoneSet)
}

// TimeZone returns the fixed zone, or nil when following the system zone.
func (r *Renderer) TimeZone() *time.Location {
	return r.fixedZone
}

// Now returns the current time snapshot.
func (r *Renderer) Now() time.Time {
	return r.now
}

// Description returns the accessibility text for the current snapshot.
func (r *Renderer) Description() string {
	return r.description
}

// SecondsEnabled reports whether the second hand is shown.
func (r *Renderer) SecondsEnabled() bool {
	return r.secondsEnabled
}

func (r *Renderer) zone() *time.Location {
	if r.fixedZone != nil {
		return r.fixedZone
	}
	return r.systemZone
}

// refresh samples the clock in the snapshot's zone, republishes the
// description and requests a repaint.
func (r *Renderer) refresh(trigger Trigger) {
	r.now = r.clock.Now().In(r.now.Location())
	r.description = r.now.Format(r.pattern)
	if r.onDescription != nil {
		r.onDescription(r.description)
	}
	r.observer.Refreshed(trigger)
	if r.invalidate != nil {
		r.invalidate()
	}
}

func (r *Renderer) scheduleNextTick() {
	delay := NextTickDelay(r.clock.Now())
	r.tickSeq++
	seq := r.tickSeq
	r.pending = r.scheduler.PostDelayed(func() { r.onTick(seq) }, delay)
	r.observer.TickScheduled(delay)
}

func (r *Renderer) onTick(seq uint64) {
	if !r.attached || seq != r.tickSeq {
		slog.Debug(config.MsgTickStale, config.LogKeyComponent, config.CompEngine)
		return
	}
	r.pending = nil
	r.refresh(TriggerTick)
	if r.attached && r.secondsEnabled {
		r.scheduleNextTick()
	}
}

func (r *Renderer) cancelTick() {
	r.tickSeq++
	if r.pending == nil {
		return
	}
	if r.pending.Stop() {
		r.observer.TickCancelled()
	}
	r.pending = nil
}
