// Package timewatch produces the host time notifications a clock face
// subscribes to: a minute tick, wall-clock jumps, and system zone changes.
package timewatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
	"github.com/tartampluch/go-clock/internal/config"
	"github.com/tartampluch/go-clock/internal/engine"
)

// Options configures a Watcher. Zero values select the real clock, inline
// dispatch and the system zone link.
type Options struct {
	Clock clockwork.Clock
	// Dispatch runs subscriber callbacks on the UI thread.
	Dispatch func(func())
	// ZoneLink is the symlink naming the system zone, usually /etc/localtime.
	ZoneLink string
	// Wall reads the wall clock without a monotonic reading. Jumps are the
	// difference between its progress and the check ticker's.
	Wall func() time.Time
}

type subscription struct {
	fn    func(engine.Event)
	kinds []engine.EventKind
}

// Watcher implements engine.EventSource.
type Watcher struct {
	clock    clockwork.Clock
	dispatch func(func())
	zoneLink string
	wall     func() time.Time

	mu     sync.Mutex
	subs   map[int]subscription
	nextID int
}

// New creates a Watcher. Nothing is observed until Run is called.
func New(opts Options) *Watcher {
	w := &Watcher{
		clock:    opts.Clock,
		dispatch: opts.Dispatch,
		zoneLink: opts.ZoneLink,
		wall:     opts.Wall,
		subs:     make(map[int]subscription),
	}
	if w.clock == nil {
		w.clock = clockwork.NewRealClock()
	}
	if w.dispatch == nil {
		w.dispatch = func(fn func()) { fn() }
	}
	if w.zoneLink == "" {
		w.zoneLink = config.SystemZoneLink
	}
	if w.wall == nil {
		w.wall = func() time.Time { return w.clock.Now().Round(0) }
	}
	return w
}

// Subscribe registers fn for the given kinds. With no kinds, fn receives
// every event.
func (w *Watcher) Subscribe(fn func(engine.Event), kinds ...engine.EventKind) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.subs[id] = subscription{fn: fn, kinds: kinds}

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

// Emit delivers ev to every interested subscriber through the dispatcher.
func (w *Watcher) Emit(ev engine.Event) {
	w.mu.Lock()
	targets := make([]func(engine.Event), 0, len(w.subs))
	for _, s := range w.subs {
		if len(s.kinds) == 0 || lo.Contains(s.kinds, ev.Kind) {
			targets = append(targets, s.fn)
		}
	}
	w.mu.Unlock()

	for _, fn := range targets {
		w.dispatch(func() { fn(ev) })
	}
}

// Run observes the host until ctx is cancelled. A zone link that cannot be
// watched disables zone notifications but not the rest.
func (w *Watcher) Run(ctx context.Context) {
	slog.Info(config.MsgWatcherStart,
		config.LogKeyComponent, config.CompWatcher,
		config.LogKeyPath, w.zoneLink,
	)

	var zoneEvents <-chan fsnotify.Event
	var zoneErrors <-chan error
	if fw, err := w.watchZoneLink(); err != nil {
		slog.Warn(config.MsgWatcherNoZone,
			config.LogKeyComponent, config.CompWatcher,
			config.LogKeyError, err,
		)
	} else {
		defer func() { _ = fw.Close() }()
		zoneEvents, zoneErrors = fw.Events, fw.Errors
	}

	minute := w.clock.NewTimer(untilNextMinute(w.clock.Now()))
	defer minute.Stop()

	check := w.clock.NewTicker(config.ClockCheckInterval)
	defer check.Stop()
	prevTick, prevWall := w.clock.Now(), w.wall()

	for {
		select {
		case <-ctx.Done():
			slog.Info(config.MsgWatcherStop, config.LogKeyComponent, config.CompWatcher)
			return

		case now := <-minute.Chan():
			w.Emit(engine.Event{Kind: engine.EventTick})
			minute.Reset(untilNextMinute(now))

		case tick := <-check.Chan():
			wall := w.wall()
			drift := JumpDrift(prevTick, tick, prevWall, wall)
			prevTick, prevWall = tick, wall
			if drift.Abs() >= config.ClockJumpThreshold {
				slog.Info(config.MsgClockJump,
					config.LogKeyComponent, config.CompWatcher,
					config.LogKeyDrift, drift,
				)
				w.Emit(engine.Event{Kind: engine.EventTimeChanged})
				// A step can move the next minute boundary.
				minute.Reset(untilNextMinute(w.clock.Now()))
			}

		case ev, ok := <-zoneEvents:
			if !ok {
				zoneEvents = nil
				continue
			}
			if !w.isZoneLinkEvent(ev) {
				continue
			}
			id, err := ReadZoneID(w.zoneLink)
			if err != nil {
				slog.Warn(config.ErrZoneLink,
					config.LogKeyComponent, config.CompWatcher,
					config.LogKeyError, err,
				)
			}
			slog.Info(config.MsgZoneLinkChanged,
				config.LogKeyComponent, config.CompWatcher,
				config.LogKeyZone, id,
			)
			w.Emit(engine.Event{Kind: engine.EventTimeZoneChanged, ZoneID: id})

		case err, ok := <-zoneErrors:
			if !ok {
				zoneErrors = nil
				continue
			}
			slog.Warn(config.ErrWatcherEvent,
				config.LogKeyComponent, config.CompWatcher,
				config.LogKeyError, err,
			)
		}
	}
}

// watchZoneLink watches the link's directory, since the link itself is
// usually replaced rather than written.
func (w *Watcher) watchZoneLink() (*fsnotify.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrWatcherCreate, err)
	}
	if err := fw.Add(filepath.Dir(w.zoneLink)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrWatcherAdd, err)
	}
	return fw, nil
}

func (w *Watcher) isZoneLinkEvent(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(w.zoneLink) {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

// JumpDrift returns how far the wall clock moved beyond the elapsed time
// measured by the ticker between two checks.
func JumpDrift(prevTick, tick, prevWall, wall time.Time) time.Duration {
	return wall.Sub(prevWall) - tick.Sub(prevTick)
}

// ReadZoneID resolves the zone link to an IANA id such as "Europe/Paris".
// The id is empty when the link is not a symlink into a zoneinfo tree.
func ReadZoneID(link string) (string, error) {
	target, err := os.Readlink(link)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrZoneLink, err)
	}
	return ZoneIDFromPath(target), nil
}

// ZoneIDFromPath extracts the zone id from a zoneinfo file path.
func ZoneIDFromPath(p string) string {
	_, id, found := strings.Cut(filepath.ToSlash(p), config.ZoneInfoMarker)
	if !found {
		return ""
	}
	id = strings.TrimPrefix(id, "posix/")
	id = strings.TrimPrefix(id, "right/")
	return id
}

func untilNextMinute(now time.Time) time.Duration {
	return config.MinuteQuantum - now.Sub(now.Truncate(config.MinuteQuantum))
}
