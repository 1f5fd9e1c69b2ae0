package engine

import (
	"time"

	"github.com/samber/lo"
	"github.com/tartampluch/go-clock/internal/config"
)

// HandAngles returns the clockwise hand angles in degrees for t.
// Hands step: the hour hand does not creep between hours.
func HandAngles(t time.Time) (hour, minute, second float64) {
	hour = float64(t.Hour()%config.HoursOnDial) * config.DegreesPerHour
	minute = float64(t.Minute()) * config.DegreesPerMinute
	second = float64(t.Second()) * config.DegreesPerSecond
	return hour, minute, second
}

// FitScale returns the uniform scale applied to fit the dial into a
// width x height view. The dial shrinks to fit but never grows.
func (r *Renderer) FitScale(width, height int) float64 {
	return min(r.rawScale(width, height), 1)
}

func (r *Renderer) rawScale(width, height int) float64 {
	dw, dh := r.dial.IntrinsicWidth(), r.dial.IntrinsicHeight()
	if dw <= 0 || dh <= 0 {
		return 1
	}
	return min(float64(width)/float64(dw), float64(height)/float64(dh))
}

// Paint draws the face centered in a width x height view. The canvas is
// restored to its entry state before returning.
func (r *Renderer) Paint(c Canvas, width, height int) {
	checkpoint := c.Save()
	defer c.RestoreToCount(checkpoint)

	c.Translate(float64(width/2), float64(height/2))
	if scale := r.rawScale(width, height); scale < 1 {
		c.Scale(scale, scale, 0, 0)
	}

	r.dial.Draw(c)

	hour, minute, second := HandAngles(r.now)

	// Rotations accumulate, so each hand rotates relative to the previous one.
	c.Rotate(hour, 0, 0)
	r.hourHand.Draw(c)

	c.Rotate(minute-hour, 0, 0)
	r.minuteHand.Draw(c)

	if r.secondsEnabled {
		c.Rotate(second-minute, 0, 0)
		r.secondHand.Draw(c)
	}
}

// OwnsDrawable reports whether d is one of the face's assets.
func (r *Renderer) OwnsDrawable(d Drawable) bool {
	if d == nil {
		return false
	}
	return lo.Contains([]Drawable{r.dial, r.hourHand, r.minuteHand, r.secondHand}, d)
}
