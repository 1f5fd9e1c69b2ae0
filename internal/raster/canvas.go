// Package raster paints clock faces into in-memory images.
package raster

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// identity is the 2x3 identity matrix.
var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Canvas implements engine.Canvas on a draw.Image with an affine matrix stack.
// Angles are clockwise because image y grows downward.
type Canvas struct {
	dst    draw.Image
	m      f64.Aff3
	stack  []f64.Aff3
	interp draw.Transformer
}

// NewCanvas returns a canvas drawing into dst with bilinear sampling.
func NewCanvas(dst draw.Image) *Canvas {
	return &Canvas{dst: dst, m: identity, interp: draw.BiLinear}
}

// Save pushes the current matrix and returns the depth before the push.
func (c *Canvas) Save() int {
	checkpoint := len(c.stack)
	c.stack = append(c.stack, c.m)
	return checkpoint
}

// RestoreToCount pops back to the state saved at checkpoint.
// Out-of-range checkpoints are clamped.
func (c *Canvas) RestoreToCount(checkpoint int) {
	if checkpoint < 0 {
		checkpoint = 0
	}
	if checkpoint >= len(c.stack) {
		return
	}
	c.m = c.stack[checkpoint]
	c.stack = c.stack[:checkpoint]
}

// Depth returns the number of saved states.
func (c *Canvas) Depth() int {
	return len(c.stack)
}

// Matrix returns the current transform.
func (c *Canvas) Matrix() f64.Aff3 {
	return c.m
}

func (c *Canvas) Translate(dx, dy float64) {
	c.m = mul(c.m, f64.Aff3{1, 0, dx, 0, 1, dy})
}

func (c *Canvas) Scale(sx, sy, px, py float64) {
	c.m = mul(c.m, f64.Aff3{sx, 0, px - sx*px, 0, sy, py - sy*py})
}

func (c *Canvas) Rotate(degrees, px, py float64) {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	c.m = mul(c.m, f64.Aff3{
		cos, -sin, px - cos*px + sin*py,
		sin, cos, py - sin*px - cos*py,
	})
}

// DrawImage composites img stretched into dst under the current transform.
func (c *Canvas) DrawImage(img image.Image, dst image.Rectangle) {
	sr := img.Bounds()
	if sr.Empty() || dst.Empty() {
		return
	}
	sx := float64(dst.Dx()) / float64(sr.Dx())
	sy := float64(dst.Dy()) / float64(sr.Dy())
	local := f64.Aff3{
		sx, 0, float64(dst.Min.X) - float64(sr.Min.X)*sx,
		0, sy, float64(dst.Min.Y) - float64(sr.Min.Y)*sy,
	}
	c.interp.Transform(c.dst, mul(c.m, local), img, sr, draw.Over, nil)
}

// Map applies the current transform to a point.
func (c *Canvas) Map(x, y float64) (float64, float64) {
	return c.m[0]*x + c.m[1]*y + c.m[2], c.m[3]*x + c.m[4]*y + c.m[5]
}

// mul returns a·b, i.e. b applied first.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}
