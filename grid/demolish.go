package grid

import (
	"math/rand"

	"github.com/milk9111/dungeonshift/tile"
)

// IsBlocking reports whether the shared boundary between two adjacent cells
// is a wall on at least one side.
func (g *Grid) IsBlocking(from, to Position) bool {
	if !g.Contains(from) || !g.Contains(to) {
		return false
	}
	if _, ok := directionTo(from, to); !ok {
		return false
	}
	return !g.CanTraverse(from, to)
}

// OpenWall demolishes the wall between two adjacent cells. Each side is
// upgraded to the (type, orientation) that contains the required opening
// while preserving the most currently-open sides, preferring the tile's
// original type on ties. Decay carries over. Structural disruption then
// scatters bumps random decay increments across the board, skipping tiles in
// skip. Returns false only if no replacement exists, which cross tiles make
// impossible in practice.
func (g *Grid) OpenWall(from, to Position, bumps int, rng *rand.Rand, skip map[Position]bool) bool {
	if !g.Contains(from) || !g.Contains(to) {
		return false
	}
	d, ok := directionTo(from, to)
	if !ok {
		return false
	}

	fromTile, ok := upgradeTile(g.At(from), d)
	if !ok {
		return false
	}
	toTile, ok := upgradeTile(g.At(to), d.Opposite())
	if !ok {
		return false
	}

	g.Set(from, fromTile)
	g.Set(to, toTile)

	for i := 0; i < bumps; i++ {
		g.IncreaseRandomDecay(rng, skip)
	}
	return true
}

// upgradeTile searches every (type, orientation) pair for the best
// replacement that opens required and keeps the most sides the current tile
// already opens.
func upgradeTile(current tile.Tile, required tile.Direction) (tile.Tile, bool) {
	currentEdges := current.Edges()

	best := current
	bestScore := -1
	found := false
	for _, typ := range tile.Types() {
		for o := 0; o < 4; o++ {
			edges := tile.Edges(typ, o)
			if !edges.Open(required) {
				continue
			}
			score := 0
			for _, dir := range tile.Directions() {
				if currentEdges.Open(dir) && edges.Open(dir) {
					score++
				}
			}
			better := score > bestScore ||
				(score == bestScore && typ == current.Type && best.Type != current.Type)
			if better {
				best = tile.Tile{Type: typ, Orientation: o, Decay: current.Decay}
				bestScore = score
				found = true
			}
		}
	}
	return best, found
}
