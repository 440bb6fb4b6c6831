package physics

import (
	"math"
	"slices"
)

// SpatialGrid buckets indices by field cell for broad-phase collision checks.
// A query visits the 3x3 block of cells around a point, wrapping at the field
// edges, so the cell size must be at least the largest collision distance.
type SpatialGrid struct {
	field Field
	inv   float64
	cols  int
	rows  int
	cells [][]int
}

// NewSpatialGrid covers field with square cells of the given size. A field
// smaller than one cell gets a single cell.
func NewSpatialGrid(field Field, cellSize float64) *SpatialGrid {
	cols := max(1, int(math.Floor(field.Width/cellSize)))
	rows := max(1, int(math.Floor(field.Height/cellSize)))
	return &SpatialGrid{
		field: field,
		inv:   1 / cellSize,
		cols:  cols,
		rows:  rows,
		cells: make([][]int, cols*rows),
	}
}

// Clear empties every cell, keeping the backing arrays for the next frame.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert files index under the cell containing the wrapped position p.
func (g *SpatialGrid) Insert(p Vector, index int) {
	cell := g.cellAt(p)
	g.cells[cell] = append(g.cells[cell], index)
}

// QueryAround calls fn with every index in the cells around p. Each cell is
// visited once even when the grid is small enough for neighbours to wrap onto
// each other. Returning true from fn stops the query.
func (g *SpatialGrid) QueryAround(p Vector, fn func(index int) bool) {
	col, row := g.posToCell(g.field.Wrap(p))

	var visited [9]int
	n := 0
	for dr := -1; dr <= 1; dr++ {
		r := (row + dr + g.rows) % g.rows
		for dc := -1; dc <= 1; dc++ {
			cell := r*g.cols + (col+dc+g.cols)%g.cols
			if slices.Contains(visited[:n], cell) {
				continue
			}
			visited[n] = cell
			n++

			for _, index := range g.cells[cell] {
				if fn(index) {
					return
				}
			}
		}
	}
}

func (g *SpatialGrid) cellAt(p Vector) int {
	col, row := g.posToCell(g.field.Wrap(p))
	return row*g.cols + col
}

// posToCell clamps so a coordinate of exactly Width or Height stays in range.
func (g *SpatialGrid) posToCell(p Vector) (col, row int) {
	col = min(max(int(p.X*g.inv), 0), g.cols-1)
	row = min(max(int(p.Y*g.inv), 0), g.rows-1)
	return col, row
}

