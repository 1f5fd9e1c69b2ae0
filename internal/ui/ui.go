package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
	"github.com/jonboulle/clockwork"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-clock/internal/config"
	"github.com/tartampluch/go-clock/internal/engine"
	"github.com/tartampluch/go-clock/internal/face"
	"github.com/tartampluch/go-clock/internal/metrics"
	"github.com/tartampluch/go-clock/internal/server"
	"github.com/tartampluch/go-clock/internal/timewatch"
)

// GoClockApp encapsulates the UI state, preferences, and background services.
type GoClockApp struct {
	App            fyne.App
	Window         fyne.Window
	SettingsWindow fyne.Window
	Preferences    fyne.Preferences
	I18nBundle     *i18n.Bundle
	Localizer      *i18n.Localizer
	Ctx            context.Context

	Server  *server.SnapshotServer
	Metrics *metrics.Recorder
	Watcher *timewatch.Watcher
	Face    *face.Face
	Clock   clockwork.Clock // Injected clock for testability

	ClockWidget *ClockWidget
	Description binding.String

	// Command-line overrides, applied on top of preferences.
	ZoneOverride string
	NoSeconds    bool

	SupportedLanguages []string

	running      bool
	lastSnapshot string
	serverCancel context.CancelFunc
}

// NewGoClockApp constructs the application and wires dependencies.
// srv, rec and watcher may be nil.
func NewGoClockApp(a fyne.App, ctx context.Context, srv *server.SnapshotServer, rec *metrics.Recorder, watcher *timewatch.Watcher, f *face.Face) *GoClockApp {
	return &GoClockApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Metrics:            rec,
		Watcher:            watcher,
		Face:               f,
		Clock:              clockwork.NewRealClock(),
		Description:        binding.NewString(),
		SupportedLanguages: config.SupportedLanguages,
	}
}

// Run builds the main window, starts background services and blocks in the
// Fyne event loop.
func (app *GoClockApp) Run() error {
	app.SetupI18n()

	if err := app.BuildMainWindow(); err != nil {
		return err
	}

	lifecycle := app.App.Lifecycle()
	lifecycle.SetOnStarted(app.Attach)
	lifecycle.SetOnStopped(app.Detach)

	if app.Watcher != nil {
		go app.Watcher.Run(app.Ctx)
	}
	app.RestartServer()

	app.Window.ShowAndRun()
	return nil
}

// BuildMainWindow creates the master window holding the clock and its
// description label.
func (app *GoClockApp) BuildMainWindow() error {
	app.Window = app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window.SetMaster()
	app.Window.SetOnClosed(app.Detach)

	if err := app.RebuildClock(); err != nil {
		return err
	}
	app.refreshMainMenu()
	return nil
}

// Attach starts the clock. It is wired to the application start hook.
func (app *GoClockApp) Attach() {
	app.running = true
	if app.ClockWidget != nil {
		app.ClockWidget.Attach()
	}
}

// Detach stops the clock and its tick chain.
func (app *GoClockApp) Detach() {
	app.running = false
	if app.ClockWidget != nil {
		app.ClockWidget.Detach()
	}
}

// RebuildClock replaces the clock widget so that new display settings take
// effect. The seconds setting is fixed for the lifetime of a renderer.
func (app *GoClockApp) RebuildClock() error {
	if app.ClockWidget != nil {
		app.ClockWidget.Detach()
	}

	cw, err := NewClockWidget(ClockOptions{
		Face:           app.Face,
		Clock:          app.Clock,
		Events:         app.eventSource(),
		Observer:       app.observer(),
		Pattern:        app.descriptionPattern(),
		SecondsEnabled: app.secondsEnabled(),
		TimeZone:       app.fixedZone(),
		OnDescription:  app.onDescription,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrFaceLoad, err)
	}
	app.ClockWidget = cw
	app.lastSnapshot = ""
	_ = app.Description.Set(cw.Renderer().Description())

	label := widget.NewLabelWithData(app.Description)
	label.Alignment = fyne.TextAlignCenter

	if app.Window != nil {
		app.Window.SetContent(container.NewPadded(container.NewBorder(nil, label, nil, nil, cw)))
	}

	slog.Debug(config.MsgWidgetRebuilt,
		config.LogKeyComponent, config.CompUI,
		config.LogKeySeconds, cw.Renderer().SecondsEnabled(),
	)

	if app.running {
		cw.Attach()
	}
	return nil
}

// refreshMainMenu rebuilds the menu with the current language.
func (app *GoClockApp) refreshMainMenu() {
	if app.Window == nil {
		return
	}
	settings := fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), app.ShowSettingsWindow)
	snapshot := fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSnapshot), app.openSnapshot)
	snapshot.Disabled = !app.serverEnabled()

	app.Window.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu(config.AppName, settings, snapshot)))
}

func (app *GoClockApp) openSnapshot() {
	u, err := url.Parse(fmt.Sprintf(config.SnapshotURLFormat,
		config.LocalhostBindAddr, config.AddrSeparator, app.serverPort()))
	if err != nil {
		return
	}
	_ = app.App.OpenURL(u)
}

// onDescription receives every refresh on the UI thread. The snapshot is
// republished only when the visible text changes.
func (app *GoClockApp) onDescription(desc string) {
	_ = app.Description.Set(desc)
	app.publishSnapshot(desc)
}

func (app *GoClockApp) publishSnapshot(desc string) {
	if app.serverCancel == nil || app.Server == nil || app.ClockWidget == nil {
		return
	}
	if desc == app.lastSnapshot {
		return
	}

	size := config.SnapshotFallbackSize
	if s := app.ClockWidget.Size(); s.Width > 0 && s.Height > 0 {
		size = int(min(s.Width, s.Height))
	}

	n, err := app.Server.Publish(app.ClockWidget.Snapshot(size))
	if err != nil {
		slog.Error(config.ErrSnapshotEncode,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err,
		)
		return
	}
	app.lastSnapshot = desc
	if app.Metrics != nil {
		app.Metrics.SnapshotEncoded(n)
	}
}

// RestartServer applies the server preferences: it stops the running server
// when disabled or when the port changed, and starts one when enabled.
func (app *GoClockApp) RestartServer() {
	enabled := app.serverEnabled()
	port := app.serverPort()

	if app.serverCancel != nil && enabled && app.Server != nil && app.Server.Port == port {
		return
	}
	if app.serverCancel != nil {
		app.serverCancel()
		app.serverCancel = nil
	}
	if !enabled {
		return
	}

	if app.Server == nil || app.Server.Port != port {
		app.Server = server.NewSnapshotServer(port, app.metricsHandler())
	}

	ctx, cancel := context.WithCancel(app.Ctx)
	app.serverCancel = cancel
	srv := app.Server
	failure := fmt.Sprintf(app.GetMsg(config.TKeyNotifServerError), srv.Port)

	go func() {
		if err := srv.Start(ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyPort, srv.Port,
				config.LogKeyError, err,
			)
			app.App.SendNotification(fyne.NewNotification(config.TitleStartupError, failure))
		}
	}()

	app.lastSnapshot = ""
	if app.ClockWidget != nil {
		app.publishSnapshot(app.ClockWidget.Renderer().Description())
	}
}

func (app *GoClockApp) metricsHandler() http.Handler {
	if app.Metrics == nil {
		return nil
	}
	return app.Metrics.Handler()
}

func (app *GoClockApp) eventSource() engine.EventSource {
	if app.Watcher == nil {
		return nil
	}
	return app.Watcher
}

func (app *GoClockApp) observer() engine.Observer {
	if app.Metrics == nil {
		return nil
	}
	return app.Metrics
}

// descriptionPattern is the locale's time layout for the description label.
func (app *GoClockApp) descriptionPattern() string {
	if p := app.GetMsg(config.TKeyDescPattern); p != config.TKeyDescPattern {
		return p
	}
	return config.DefaultDescPattern
}

func (app *GoClockApp) secondsEnabled() bool {
	if app.NoSeconds {
		return false
	}
	return app.Preferences.BoolWithFallback(config.PrefSecondsEnabled, config.DefaultSecondsEnabled)
}

func (app *GoClockApp) serverEnabled() bool {
	return app.Preferences.BoolWithFallback(config.PrefServerEnabled, config.DefaultServerEnabled)
}

func (app *GoClockApp) serverPort() string {
	return app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort)
}

// fixedZone resolves the pinned zone: the command-line override first, then
// the preference. Nil follows the system zone.
func (app *GoClockApp) fixedZone() *time.Location {
	id := app.ZoneOverride
	if id == "" {
		id = app.Preferences.String(config.PrefTimeZone)
	}
	if id == "" {
		return nil
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		slog.Warn(config.ErrTimeZoneInvalid,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyZone, id,
			config.LogKeyError, err,
		)
		return nil
	}
	return loc
}
