package ui

import (
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/jonboulle/clockwork"
	"github.com/tartampluch/go-clock/internal/engine"
	"github.com/tartampluch/go-clock/internal/face"
	"github.com/tartampluch/go-clock/internal/raster"
)

// ClockWidget hosts an engine.Renderer inside a Fyne layout.
// Attach and Detach map to the renderer's Start and Stop.
type ClockWidget struct {
	widget.BaseWidget

	renderer *engine.Renderer
	raster   *canvas.Raster
}

// ClockOptions are the host-side settings of a clock widget.
type ClockOptions struct {
	Face           *face.Face
	Clock          clockwork.Clock
	Events         engine.EventSource
	Observer       engine.Observer
	Pattern        string
	SecondsEnabled bool
	TimeZone       *time.Location
	OnDescription  func(string)
}

// NewClockWidget builds a detached clock. Timer callbacks are marshalled
// onto the Fyne main goroutine.
func NewClockWidget(opts ClockOptions) (*ClockWidget, error) {
	w := &ClockWidget{}
	w.raster = canvas.NewRaster(w.draw)

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	r, err := engine.New(engine.Options{
		Dial:               part(opts.Face.Dial),
		HourHand:           part(opts.Face.HourHand),
		MinuteHand:         part(opts.Face.MinuteHand),
		SecondHand:         part(opts.Face.SecondHand),
		DescriptionPattern: opts.Pattern,
		SecondsEnabled:     opts.SecondsEnabled,
		TimeZone:           opts.TimeZone,
		Clock:              clock,
		Scheduler:          engine.NewClockScheduler(clock, fyne.Do),
		Events:             opts.Events,
		Observer:           opts.Observer,
		Invalidate:         w.raster.Refresh,
		OnDescription:      opts.OnDescription,
	})
	if err != nil {
		return nil, err
	}
	w.renderer = r

	w.ExtendBaseWidget(w)
	return w, nil
}

// part keeps a missing face part a nil interface so engine.New rejects it.
func part(d *raster.ImageDrawable) engine.Drawable {
	if d == nil {
		return nil
	}
	return d
}

// Attach starts the renderer.
func (w *ClockWidget) Attach() { w.renderer.Start() }

// Detach stops the renderer and cancels its pending tick.
func (w *ClockWidget) Detach() { w.renderer.Stop() }

// Renderer exposes the underlying clock face.
func (w *ClockWidget) Renderer() *engine.Renderer { return w.renderer }

func (w *ClockWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}

// MinSize is the renderer's unconstrained measurement.
func (w *ClockWidget) MinSize() fyne.Size {
	width, height := w.renderer.Measure(engine.Unconstrained(), engine.Unconstrained())
	return fyne.NewSize(float32(width), float32(height))
}

// Snapshot paints the current time into a size x size image.
func (w *ClockWidget) Snapshot(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	w.renderer.Paint(raster.NewCanvas(img), size, size)
	return img
}

// draw is the raster generator. Fyne passes the texture size in pixels;
// painting happens in logical units scaled to the texture.
func (w *ClockWidget) draw(pw, ph int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	c := raster.NewCanvas(img)

	size := w.Size()
	if size.Width <= 0 || size.Height <= 0 {
		w.renderer.Paint(c, pw, ph)
		return img
	}

	scale := float64(pw) / float64(size.Width)
	c.Scale(scale, scale, 0, 0)
	w.renderer.Paint(c, int(size.Width), int(size.Height))
	return img
}
