package game

import "math"

// SpatialCellSize is about twice the largest asteroid radius.
const SpatialCellSize = 100.0

// SpatialGrid is a uniform grid over the playfield for broad-phase
// queries. Positions outside the playfield clamp to the border cells, so an
// overlap between two circles always shares at least one cell.
type SpatialGrid struct {
	cols, rows int
	cells      [][]Ref
}

// NewSpatialGrid covers a w x h playfield.
func NewSpatialGrid(w, h float64) *SpatialGrid {
	cols := int(math.Ceil(w/SpatialCellSize)) + 1
	rows := int(math.Ceil(h/SpatialCellSize)) + 1
	return &SpatialGrid{
		cols:  cols,
		rows:  rows,
		cells: make([][]Ref, cols*rows),
	}
}

// Clear resets all cells, keeping allocated capacity.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func clampCell(v float64, n int) int {
	c := int(math.Floor(v / SpatialCellSize))
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

func (g *SpatialGrid) span(p Vec, radius float64) (minX, maxX, minY, maxY int) {
	return clampCell(p.X-radius, g.cols), clampCell(p.X+radius, g.cols),
		clampCell(p.Y-radius, g.rows), clampCell(p.Y+radius, g.rows)
}

// Insert adds ref to every cell its bounding box touches.
func (g *SpatialGrid) Insert(ref Ref) {
	minX, maxX, minY, maxY := g.span(ref.Position(), ref.Annulus().Outer)
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			idx := cy*g.cols + cx
			g.cells[idx] = append(g.cells[idx], ref)
		}
	}
}

// QueryBuf appends refs from cells overlapping the box around p to buf.
// A ref may appear more than once.
func (g *SpatialGrid) QueryBuf(p Vec, radius float64, buf []Ref) []Ref {
	minX, maxX, minY, maxY := g.span(p, radius)
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}
