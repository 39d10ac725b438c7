// Package layout derives the square canvas, padding and point radius from
// the viewport size.
package layout

import "math"

// Tier thresholds and outputs, keyed by viewport width.
const (
	SmallWidth  = 400
	MediumWidth = 600

	SmallPadding  = 40
	MediumPadding = 60
	LargePadding  = 120

	SmallPointRadius  = 4
	MediumPointRadius = 5
	LargePointRadius  = 10
)

// Layout is the canvas geometry for one viewport
type Layout struct {
	Width       float64
	Height      float64
	Padding     float64
	PointRadius float64
}

// Compute returns the layout for a viewport. The canvas side is
// min(width, height) minus twice previousPadding, i.e. the padding chosen by
// the previous call; the padding and point radius returned here only affect
// the next resize. A canvas that would be negative is clamped to zero.
func Compute(viewportWidth, viewportHeight, previousPadding float64) Layout {
	dim := math.Min(viewportWidth, viewportHeight) - 2*previousPadding
	if dim < 0 || math.IsNaN(dim) {
		dim = 0
	}

	l := Layout{Width: dim, Height: dim}
	switch {
	case viewportWidth < SmallWidth:
		l.Padding, l.PointRadius = SmallPadding, SmallPointRadius
	case viewportWidth < MediumWidth:
		l.Padding, l.PointRadius = MediumPadding, MediumPointRadius
	default:
		l.Padding, l.PointRadius = LargePadding, LargePointRadius
	}
	return l
}

// Outer is the full drawing size including padding on both sides.
func (l Layout) Outer() float64 {
	return l.Width + 2*l.Padding
}
