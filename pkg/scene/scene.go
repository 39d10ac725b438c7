// Package scene turns application state into a drawable frame and writes
// it as SVG. A frame owns its random edge split: composing twice from the
// same state gives two different frames unless the source is seeded.
package scene

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/recera/polynet/pkg/geometry"
	"github.com/recera/polynet/pkg/partition"
	"github.com/recera/polynet/pkg/renderer/svg"
	"github.com/recera/polynet/pkg/state"
)

// RotationPeriod is the time for one full turn of the diagram.
const RotationPeriod = 30 * time.Second

// Frame is one rendered pass over a state
type Frame struct {
	State      state.State
	Center     geometry.Point
	Radius     float64
	Vertices   []geometry.Point
	Edges      []geometry.Edge
	Emphasized partition.Selection
}

// Compose places the vertices for s, enumerates the complete graph and
// draws a fresh emphasized/dotted split from src.
func Compose(s state.State, src partition.Source) Frame {
	c := s.Width/2 + s.Padding
	f := Frame{
		State:  s,
		Center: geometry.Point{X: c, Y: c},
		Radius: s.Width/2 - s.Padding/2,
	}

	// sides is clamped to MinSides, so placement cannot fail
	f.Vertices, _ = geometry.PlaceVertices(c, c, f.Radius, max(s.Sides, geometry.MinSides))
	f.Edges = geometry.EnumerateEdges(len(f.Vertices))
	f.Emphasized = partition.SelectEmphasized(len(f.Edges), s.ChanceDotted, src)
	return f
}

// Dotted returns the segments drawn in the dotted style, in edge order
func (f Frame) Dotted() []geometry.Segment {
	return f.segments(false)
}

// Solid returns the emphasized segments, in edge order
func (f Frame) Solid() []geometry.Segment {
	return f.segments(true)
}

func (f Frame) segments(emphasized bool) []geometry.Segment {
	all := geometry.Segments(f.Vertices, f.Edges)
	out := all[:0]
	for i, seg := range all {
		if f.Emphasized.Has(i) == emphasized {
			out = append(out, seg)
		}
	}
	return out
}

// Outer is the full drawing size including padding
func (f Frame) Outer() float64 {
	return f.State.Width + 2*f.State.Padding
}

// WriteSVG writes the frame as a standalone SVG document: background,
// then a rotating group holding dotted edges, solid edges and vertex
// markers in that order.
func (f Frame) WriteSVG(w io.Writer) error {
	s := f.State
	r := s.PointRadius
	outer := f.Outer()
	pivot := s.Height/2 + s.Padding

	canvas := svg.NewCanvas(w)
	canvas.Start(outer, s.Height+2*s.Padding)
	canvas.Rect(0, 0, outer, outer, svg.Attr("fill", s.Colors.Background))

	canvas.Group(`id="network"`, `class="network"`)
	for _, seg := range f.Dotted() {
		canvas.Line(seg.From.X, seg.From.Y, seg.To.X, seg.To.Y,
			`class="dashed"`,
			svg.Attr("stroke", s.Colors.Dotted),
			svg.Attr("stroke-width", r/3.5),
			svg.Attr("stroke-dasharray", svg.Dash(r*2, r)),
		)
	}
	for _, seg := range f.Solid() {
		canvas.Line(seg.From.X, seg.From.Y, seg.To.X, seg.To.Y,
			svg.Attr("stroke", s.Colors.Line),
			svg.Attr("stroke-width", r/1.5),
		)
	}
	for _, p := range f.Vertices {
		canvas.Circle(p.X, p.Y, r*2, svg.Attr("fill", s.Colors.Line))
	}
	canvas.Gend()

	// repeat 0 is indefinite
	canvas.AnimateRotate("#network", 0, pivot, pivot, 360, pivot, pivot, RotationPeriod.Seconds(), 0)
	canvas.End()
	return canvas.Err()
}

// SVG returns the frame markup
func (f Frame) SVG() (string, error) {
	var buf strings.Builder
	if err := f.WriteSVG(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// AngleAt is the rotation of the diagram, in radians, after elapsed time.
func AngleAt(elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	turns := float64(elapsed%RotationPeriod) / float64(RotationPeriod)
	return 2 * math.Pi * turns
}
