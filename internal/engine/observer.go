package engine

import "time"

// Trigger names what caused a refresh.
type Trigger string

const (
	TriggerAttach      Trigger = "attach"
	TriggerTick        Trigger = "tick"
	TriggerEventTick   Trigger = "event_tick"
	TriggerTimeChanged Trigger = "time_changed"
	TriggerZoneChanged Trigger = "timezone_changed"
	TriggerZoneSet     Trigger = "timezone_set"
)

// triggerFor maps a host event to the refresh trigger it causes.
func triggerFor(kind EventKind) Trigger {
	switch kind {
	case EventTimeChanged:
		return TriggerTimeChanged
	case EventTimeZoneChanged:
		return TriggerZoneChanged
	default:
		return TriggerEventTick
	}
}

// Observer receives renderer activity, e.g. for metrics.
// Calls happen on the UI thread.
type Observer interface {
	Refreshed(trigger Trigger)
	TickScheduled(delay time.Duration)
	TickCancelled()
	Attached(attached bool)
}

type nopObserver struct{}

func (nopObserver) Refreshed(Trigger)           {}
func (nopObserver) TickScheduled(time.Duration) {}
func (nopObserver) TickCancelled()              {}
func (nopObserver) Attached(bool)               {}
