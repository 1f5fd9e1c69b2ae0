package engine

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tartampluch/go-clock/internal/config"
)

// Clock abstracts time.Now() to allow deterministic testing.
// clockwork.Clock (real and fake) satisfies it.
type Clock interface {
	Now() time.Time
}

// UnknownZone is the zone bound when a delivered zone id cannot be parsed.
// It keeps a zero offset but carries its own name so it is never mistaken
// for UTC or for "no override".
var UnknownZone = time.FixedZone(config.UnknownZoneName, 0)

// ResolveZone maps a zone id delivered by the host to a location.
// An empty id means the system default; unparsable ids resolve to UnknownZone.
func ResolveZone(id string) *time.Location {
	if id == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return UnknownZone
	}
	return loc
}

// NextTickDelay returns the time left until the next whole-second boundary.
// The result is in (0, TickQuantum], so a tick never fires twice for the same second.
func NextTickDelay(now time.Time) time.Duration {
	quantum := config.TickQuantum.Milliseconds()
	return time.Duration(quantum-now.UnixMilli()%quantum) * time.Millisecond
}

func defaultClock() Clock {
	return defaultClockwork()
}

func defaultClockwork() clockwork.Clock {
	return clockwork.NewRealClock()
}
