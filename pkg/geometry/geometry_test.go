package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestPlaceVertices_SingleSideIsCenter(t *testing.T) {
	points, err := PlaceVertices(50, 70, 30, 1)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, Point{X: 50, Y: 70}, points[0])
}

func TestPlaceVertices_RejectsTooFewSides(t *testing.T) {
	for _, sides := range []int{0, -1, -100} {
		points, err := PlaceVertices(0, 0, 10, sides)
		assert.Nil(t, points)
		assert.True(t, errors.Is(err, ErrTooFewSides), "sides=%d", sides)
	}
}

func TestPlaceVertices_Square(t *testing.T) {
	points, err := PlaceVertices(100, 100, 10, 4)
	require.NoError(t, err)
	require.Len(t, points, 4)

	// top, right, bottom, left: clockwise from the top
	want := []Point{{X: 100, Y: 90}, {X: 110, Y: 100}, {X: 100, Y: 110}, {X: 90, Y: 100}}
	for i, p := range points {
		assert.InDelta(t, want[i].X, p.X, eps, "vertex %d x", i)
		assert.InDelta(t, want[i].Y, p.Y, eps, "vertex %d y", i)
	}
}

func TestPlaceVertices_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every vertex lies on the circle", prop.ForAll(
		func(sides int, radius float64) bool {
			points, err := PlaceVertices(3, -2, radius, sides)
			if err != nil || len(points) != sides {
				return false
			}
			for _, p := range points {
				if math.Abs(math.Hypot(p.X-3, p.Y+2)-radius) > 1e-6 {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 64),
		gen.Float64Range(0.5, 1000),
	))

	properties.Property("consecutive vertices are 2π/n apart", prop.ForAll(
		func(sides int) bool {
			points, err := PlaceVertices(0, 0, 1, sides)
			if err != nil {
				return false
			}
			step := 2 * math.Pi / float64(sides)
			for i := range points {
				a := points[i]
				b := points[(i+1)%sides]
				// angle between unit vectors
				dot := a.X*b.X + a.Y*b.Y
				if math.Abs(math.Acos(math.Max(-1, math.Min(1, dot)))-math.Min(step, 2*math.Pi-step)) > 1e-6 {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 64),
	))

	properties.Property("vertices are distinct", prop.ForAll(
		func(sides int) bool {
			points, err := PlaceVertices(0, 0, 100, sides)
			if err != nil {
				return false
			}
			for i := range points {
				for j := i + 1; j < len(points); j++ {
					if math.Hypot(points[i].X-points[j].X, points[i].Y-points[j].Y) < 1e-6 {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(2, 64),
	))

	properties.TestingRun(t)
}

func TestEnumerateEdges_Order(t *testing.T) {
	edges := EnumerateEdges(4)
	assert.Equal(t, []Edge{
		{0, 1}, {0, 2}, {0, 3},
		{1, 2}, {1, 3},
		{2, 3},
	}, edges)
}

func TestEnumerateEdges_Degenerate(t *testing.T) {
	assert.Empty(t, EnumerateEdges(0))
	assert.Empty(t, EnumerateEdges(1))
	assert.Equal(t, []Edge{{0, 1}}, EnumerateEdges(2))
}

func TestEnumerateEdges_CompleteGraph(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("exactly n(n-1)/2 unique pairs in lexicographic order", prop.ForAll(
		func(n int) bool {
			edges := EnumerateEdges(n)
			if len(edges) != n*(n-1)/2 || len(edges) != EdgeCount(n) {
				return false
			}
			seen := make(map[Edge]bool, len(edges))
			for k, e := range edges {
				if e.I >= e.J || e.I < 0 || e.J >= n {
					return false
				}
				if seen[e] {
					return false
				}
				seen[e] = true
				if k > 0 {
					prev := edges[k-1]
					if prev.I > e.I || (prev.I == e.I && prev.J >= e.J) {
						return false
					}
				}
			}
			// every pair present
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					if !seen[Edge{i, j}] {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func TestSegments(t *testing.T) {
	points, err := PlaceVertices(0, 0, 1, 3)
	require.NoError(t, err)

	segs := Segments(points, EnumerateEdges(len(points)))
	require.Len(t, segs, 3)
	assert.Equal(t, points[0], segs[0].From)
	assert.Equal(t, points[1], segs[0].To)
	assert.Equal(t, points[1], segs[2].From)
	assert.Equal(t, points[2], segs[2].To)
}

func TestSegment_Interpolation(t *testing.T) {
	seg := Segment{From: Point{X: 1, Y: 1}, To: Point{X: 4, Y: 5}}
	assert.Equal(t, Point{X: 3, Y: 4}, seg.Vector())
	assert.InDelta(t, 5, seg.Length(), eps)
	assert.Equal(t, seg.From, seg.At(0))
	assert.Equal(t, seg.To, seg.At(1))

	mid := seg.At(0.5)
	assert.InDelta(t, 2.5, mid.X, eps)
	assert.InDelta(t, 3, mid.Y, eps)
}
