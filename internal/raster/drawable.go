package raster

import (
	"image"

	"github.com/tartampluch/go-clock/internal/engine"
)

// ImageDrawable is an engine.Drawable backed by a decoded image.
type ImageDrawable struct {
	img    image.Image
	bounds image.Rectangle
}

// NewImageDrawable wraps img. Its bounds start at the image's own bounds.
func NewImageDrawable(img image.Image) *ImageDrawable {
	return &ImageDrawable{img: img, bounds: img.Bounds()}
}

func (d *ImageDrawable) IntrinsicWidth() int  { return d.img.Bounds().Dx() }
func (d *ImageDrawable) IntrinsicHeight() int { return d.img.Bounds().Dy() }

func (d *ImageDrawable) SetBounds(bounds image.Rectangle) { d.bounds = bounds }

// Bounds returns where the image is drawn, in canvas coordinates.
func (d *ImageDrawable) Bounds() image.Rectangle { return d.bounds }

// Image returns the underlying image.
func (d *ImageDrawable) Image() image.Image { return d.img }

func (d *ImageDrawable) Draw(c engine.Canvas) {
	c.DrawImage(d.img, d.bounds)
}
