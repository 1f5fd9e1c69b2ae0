package engine

import "image"

// Canvas is the 2D surface a clock face is painted into.
// Transforms compose: every call is applied on top of the current matrix.
type Canvas interface {
	// Save pushes the current transform and returns a checkpoint for RestoreToCount.
	Save() int

	// RestoreToCount pops saved states until the checkpoint returned by Save is restored.
	RestoreToCount(checkpoint int)

	// Translate moves the origin by the given offset.
	Translate(dx, dy float64)

	// Scale scales the coordinate system around the pivot.
	Scale(sx, sy, px, py float64)

	// Rotate rotates the coordinate system clockwise by degrees around the pivot.
	Rotate(degrees, px, py float64)

	// DrawImage draws img stretched into dst, in current coordinates.
	DrawImage(img image.Image, dst image.Rectangle)
}

// Drawable is a pre-decoded asset placed by its bounds.
type Drawable interface {
	IntrinsicWidth() int
	IntrinsicHeight() int
	SetBounds(bounds image.Rectangle)
	Draw(c Canvas)
}

// CenteredBounds returns bounds of the given size symmetric around the origin.
func CenteredBounds(width, height int) image.Rectangle {
	midX, midY := width/2, height/2
	return image.Rect(-midX, -midY, midX, midY)
}

func centerDrawable(d Drawable) {
	d.SetBounds(CenteredBounds(d.IntrinsicWidth(), d.IntrinsicHeight()))
}
