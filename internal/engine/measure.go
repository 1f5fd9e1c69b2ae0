package engine

// MeasureMode is the host's constraint kind for one dimension.
type MeasureMode int

const (
	// Unspecified lets the component pick its desired size.
	Unspecified MeasureMode = iota
	// Exactly imposes Size.
	Exactly
	// AtMost caps the desired size at Size.
	AtMost
)

// MeasureSpec is a constraint for one dimension.
type MeasureSpec struct {
	Mode MeasureMode
	Size int
}

// ExactSize returns an Exactly constraint.
func ExactSize(n int) MeasureSpec { return MeasureSpec{Mode: Exactly, Size: n} }

// AtMostSize returns an AtMost constraint.
func AtMostSize(n int) MeasureSpec { return MeasureSpec{Mode: AtMost, Size: n} }

// Unconstrained returns an Unspecified constraint.
func Unconstrained() MeasureSpec { return MeasureSpec{Mode: Unspecified} }

// Resolve applies the constraint to a desired size.
func (s MeasureSpec) Resolve(desired int) int {
	switch s.Mode {
	case Exactly:
		return s.Size
	case AtMost:
		return min(desired, s.Size)
	default:
		return desired
	}
}

// Measure returns the resolved size. Only the dial participates; hands are
// expected to fit inside it.
func (r *Renderer) Measure(width, height MeasureSpec) (int, int) {
	desiredW := max(r.dial.IntrinsicWidth(), r.minWidth)
	desiredH := max(r.dial.IntrinsicHeight(), r.minHeight)
	return width.Resolve(desiredW), height.Resolve(desiredH)
}
