package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/recera/polynet/pkg/geometry"
)

// Cell is what occupies one character of a raster
type Cell uint8

const (
	CellEmpty Cell = iota
	CellDotted
	CellSolid
	CellVertex
)

// Raster draws the frame onto a cols x rows character grid, rotated by
// angle radians about the frame center. Later layers overwrite earlier ones
// in the same order as the SVG: dotted, solid, vertices.
func (f Frame) Raster(cols, rows int, angle float64) [][]Cell {
	grid := make([][]Cell, max(rows, 0))
	for y := range grid {
		grid[y] = make([]Cell, max(cols, 0))
	}
	outer := f.Outer()
	if cols <= 0 || rows <= 0 || outer <= 0 {
		return grid
	}

	sx := float64(cols) / outer
	sy := float64(rows) / outer
	r := f.State.PointRadius

	plot := func(p geometry.Point, c Cell) {
		x := int(math.Floor(p.X * sx))
		y := int(math.Floor(p.Y * sy))
		if x < 0 || y < 0 || x >= cols || y >= rows {
			return
		}
		grid[y][x] = c
	}

	turn := func(p geometry.Point) geometry.Point {
		return r2.Rotate(p, angle, f.Center)
	}

	// sample at half a cell so no gaps appear on either axis
	step := 0.5 / math.Max(sx, sy)

	drawSegment := func(seg geometry.Segment, c Cell, dashed bool) {
		turned := geometry.Segment{From: turn(seg.From), To: turn(seg.To)}
		length := turned.Length()
		n := int(math.Ceil(length/step)) + 1
		for i := 0; i <= n; i++ {
			t := float64(i) / float64(n)
			if dashed && r > 0 && math.Mod(length*t, 3*r) >= 2*r {
				continue
			}
			plot(turned.At(t), c)
		}
	}

	for _, seg := range f.Dotted() {
		drawSegment(seg, CellDotted, true)
	}
	for _, seg := range f.Solid() {
		drawSegment(seg, CellSolid, false)
	}
	for _, p := range f.Vertices {
		plot(turn(p), CellVertex)
	}
	return grid
}
