// Package geometry places polygon vertices on a circle and enumerates the
// complete graph over them. Everything here is pure; callers regenerate
// vertices and edges whenever the inputs change.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrTooFewSides is returned when a polygon is requested with fewer than one side.
var ErrTooFewSides = errors.New("geometry: sides must be at least 1")

// MinSides is the smallest vertex count PlaceVertices accepts.
const MinSides = 1

// Point is a vertex position in canvas coordinates
type Point = r2.Vec

// Edge is an unordered pair of vertex indices, stored with I < J
type Edge struct {
	I int
	J int
}

// PlaceVertices returns the vertices of a regular polygon centered on
// (cx, cy). Vertex 0 sits at the top and the rest follow clockwise.
// A single side collapses to the center point.
func PlaceVertices(cx, cy, radius float64, sides int) ([]Point, error) {
	if sides < MinSides {
		return nil, fmt.Errorf("place %d vertices: %w", sides, ErrTooFewSides)
	}

	if sides == 1 {
		return []Point{{X: cx, Y: cy}}, nil
	}

	center := Point{X: cx, Y: cy}
	points := make([]Point, sides)
	for i := 0; i < sides; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(sides))
		points[i] = r2.Add(center, r2.Scale(radius, Point{X: sin, Y: -cos}))
	}
	return points, nil
}

// EdgeCount is the number of edges in the complete graph on n vertices.
func EdgeCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// EnumerateEdges lists every unordered pair of distinct indices in [0, n)
// in ascending lexicographic order: (0,1), (0,2), ..., (1,2), ...
func EnumerateEdges(n int) []Edge {
	edges := make([]Edge, 0, EdgeCount(n))
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, Edge{I: i, J: j})
		}
	}
	return edges
}

// Segment is an edge resolved to its endpoint coordinates
type Segment struct {
	From Point
	To   Point
}

// Vector is the displacement from From to To
func (s Segment) Vector() r2.Vec { return r2.Sub(s.To, s.From) }

// Length is the Euclidean length of the segment
func (s Segment) Length() float64 { return r2.Norm(s.Vector()) }

// At returns the point a fraction t of the way along the segment.
func (s Segment) At(t float64) Point { return r2.Add(s.From, r2.Scale(t, s.Vector())) }

// Segments resolves edges against the vertex slice they index into.
func Segments(vertices []Point, edges []Edge) []Segment {
	out := make([]Segment, len(edges))
	for k, e := range edges {
		out[k] = Segment{From: vertices[e.I], To: vertices[e.J]}
	}
	return out
}
