// Package grid holds the mutable tile matrix the whole game plays on:
// generation, plot geometry, the push/eject transform, decay, and wall
// demolition.
package grid

import (
	"github.com/milk9111/dungeonshift/common"
	"github.com/milk9111/dungeonshift/tile"
)

// Position is a cell coordinate. Row 0 is the north edge.
type Position struct {
	Row int
	Col int
}

// Add returns the position one step in direction d.
func (p Position) Add(d tile.Direction) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// Manhattan returns the taxicab distance to o.
func (p Position) Manhattan(o Position) int {
	return common.Abs(p.Row-o.Row) + common.Abs(p.Col-o.Col)
}

// Plot is an insertion point just outside the grid boundary. Direction is
// the push direction into the grid.
type Plot struct {
	Row       int
	Col       int
	Direction tile.Direction
}

// Entry returns the first in-grid cell a tile pushed at this plot lands on.
func (p Plot) Entry() Position {
	return Position{Row: p.Row, Col: p.Col}.Add(p.Direction)
}

// Grid is a fixed-size matrix of tiles with no holes.
type Grid struct {
	Rows  int
	Cols  int
	tiles []tile.Tile // row-major
}

// NewEmpty returns a rows x cols grid of zero-value tiles. Callers that
// don't go through Generate (tests, tools) fill it via Set.
func NewEmpty(rows, cols int) *Grid {
	return &Grid{Rows: rows, Cols: cols, tiles: make([]tile.Tile, rows*cols)}
}

// At returns the tile at p. p must be in bounds.
func (g *Grid) At(p Position) tile.Tile {
	return g.tiles[p.Row*g.Cols+p.Col]
}

// Set replaces the tile at p.
func (g *Grid) Set(p Position, t tile.Tile) {
	g.tiles[p.Row*g.Cols+p.Col] = t
}

// Contains reports whether p is inside the grid.
func (g *Grid) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	tiles := make([]tile.Tile, len(g.tiles))
	copy(tiles, g.tiles)
	return &Grid{Rows: g.Rows, Cols: g.Cols, tiles: tiles}
}

// Positions calls fn for every cell in row-major order.
func (g *Grid) Positions(fn func(Position, tile.Tile)) {
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			p := Position{Row: r, Col: c}
			fn(p, g.At(p))
		}
	}
}

// CanTraverse reports whether a walkable edge exists from a to b. The two
// cells must be adjacent and both must open the shared boundary; a
// single-sided opening is not traversable.
func (g *Grid) CanTraverse(a, b Position) bool {
	if !g.Contains(a) || !g.Contains(b) {
		return false
	}
	d, ok := directionTo(a, b)
	if !ok {
		return false
	}
	return g.At(a).Open(d) && g.At(b).Open(d.Opposite())
}

func directionTo(a, b Position) (tile.Direction, bool) {
	for _, d := range tile.Directions() {
		if a.Add(d) == b {
			return d, true
		}
	}
	return 0, false
}

// isCorner reports whether p is one of the four corner cells.
func (g *Grid) isCorner(p Position) bool {
	return (p.Row == 0 || p.Row == g.Rows-1) && (p.Col == 0 || p.Col == g.Cols-1)
}

// isPerimeter reports whether p lies on the grid boundary.
func (g *Grid) isPerimeter(p Position) bool {
	return p.Row == 0 || p.Row == g.Rows-1 || p.Col == 0 || p.Col == g.Cols-1
}

// Immovable reports whether the cell at p can never be displaced by a push:
// corners and even-indexed perimeter cells. Push lines only run along odd
// rows and columns, so these cells stay anchored by construction.
func (g *Grid) Immovable(p Position) bool {
	if g.isCorner(p) {
		return true
	}
	if !g.isPerimeter(p) {
		return false
	}
	if p.Row == 0 || p.Row == g.Rows-1 {
		return p.Col%2 == 0
	}
	return p.Row%2 == 0
}

// InteriorImmovable reports whether p is an interior cell excluded from push
// lines (both indices even). These cells never shift but may be demolished.
func (g *Grid) InteriorImmovable(p Position) bool {
	return !g.isPerimeter(p) && p.Row%2 == 0 && p.Col%2 == 0
}

// PlotPositions enumerates every insertion point for a rows x cols grid: one
// opposing pair per odd column (pushing south/north) and per odd row
// (pushing east/west).
func PlotPositions(rows, cols int) []Plot {
	var plots []Plot
	for c := 1; c < cols; c += 2 {
		plots = append(plots, Plot{Row: -1, Col: c, Direction: tile.South})
		plots = append(plots, Plot{Row: rows, Col: c, Direction: tile.North})
	}
	for r := 1; r < rows; r += 2 {
		plots = append(plots, Plot{Row: r, Col: -1, Direction: tile.East})
		plots = append(plots, Plot{Row: r, Col: cols, Direction: tile.West})
	}
	return plots
}

// Line returns the cells a push at plot p travels through, entry end first.
func (g *Grid) Line(p Plot) []Position {
	line := make([]Position, 0, g.Rows)
	pos := p.Entry()
	for g.Contains(pos) {
		line = append(line, pos)
		pos = pos.Add(p.Direction)
	}
	return line
}

// Push shifts the plot's row or column one step in the push direction,
// inserting incoming at the entry end. It returns a new grid and the tile
// expelled from the far end; the receiver is left untouched so in-flight
// readers never see a torn board.
func (g *Grid) Push(p Plot, incoming tile.Tile) (*Grid, tile.Tile) {
	ng := g.Clone()
	line := ng.Line(p)

	ejected := ng.At(line[len(line)-1])
	for i := len(line) - 1; i > 0; i-- {
		ng.Set(line[i], ng.At(line[i-1]))
	}
	ng.Set(line[0], incoming)

	return ng, ejected
}
