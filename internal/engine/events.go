package engine

// EventKind identifies a time-related host notification.
type EventKind int

const (
	// EventTick is the host's periodic (minute) tick.
	EventTick EventKind = iota + 1
	// EventTimeChanged reports a manual or stepped wall-clock change.
	EventTimeChanged
	// EventTimeZoneChanged reports a new system zone, optionally with its id.
	EventTimeZoneChanged
)

// String returns the log/metric name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "tick"
	case EventTimeChanged:
		return "time_changed"
	case EventTimeZoneChanged:
		return "timezone_changed"
	default:
		return "unknown"
	}
}

// Event is a notification delivered on the UI thread.
type Event struct {
	Kind EventKind
	// ZoneID is the new zone id for EventTimeZoneChanged. Empty when absent.
	ZoneID string
}

// EventSource delivers host notifications of the requested kinds.
type EventSource interface {
	// Subscribe registers fn and returns the function that unregisters it.
	Subscribe(fn func(Event), kinds ...EventKind) (unsubscribe func())
}
