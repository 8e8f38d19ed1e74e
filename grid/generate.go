package grid

import (
	"fmt"
	"math/rand"

	"github.com/milk9111/dungeonshift/deck"
	"github.com/milk9111/dungeonshift/tile"
)

// GenerateConfig tunes board generation.
type GenerateConfig struct {
	// DecayWeights is the relative weight of each starting decay level,
	// indexed by level. Empty means DefaultDecayWeights.
	DecayWeights []int
	// SafeRoom forces every drawn tile to decay 0.
	SafeRoom bool
	Rng      *rand.Rand
}

// DefaultDecayWeights heavily favors pristine tiles.
func DefaultDecayWeights() []int {
	return []int{60, 20, 10, 7, 3}
}

// cornerOrientation rotates the canonical corner (north+east open) so both
// openings face into the grid.
func cornerOrientation(p Position, rows, cols int) int {
	switch {
	case p.Row == 0 && p.Col == 0:
		return 1 // east + south
	case p.Row == 0 && p.Col == cols-1:
		return 2 // south + west
	case p.Row == rows-1 && p.Col == cols-1:
		return 3 // west + north
	default:
		return 0 // north + east
	}
}

// perimeterOrientation rotates the canonical t-junction (closed north) so
// the closed side faces outward.
func perimeterOrientation(p Position, rows, cols int) int {
	switch {
	case p.Row == 0:
		return 0
	case p.Col == cols-1:
		return 1
	case p.Row == rows-1:
		return 2
	default:
		return 3
	}
}

// Generate builds a rows x cols board from the deck. Corners and even
// perimeter cells are fixed anchor tiles; interior anchor cells redraw until
// they get a tile that isn't a dead end; everything else is a straight draw.
// Drawn tiles roll an independent starting decay from the weighted
// distribution unless SafeRoom is set.
func Generate(rows, cols int, d *deck.Deck, cfg GenerateConfig) (*Grid, error) {
	if rows < 3 || cols < 3 || rows%2 == 0 || cols%2 == 0 {
		return nil, fmt.Errorf("grid: dimensions must be odd and >= 3, got %dx%d", rows, cols)
	}
	if cfg.Rng == nil {
		return nil, fmt.Errorf("grid: generate requires an rng")
	}
	weights := cfg.DecayWeights
	if len(weights) == 0 {
		weights = DefaultDecayWeights()
	}

	g := &Grid{Rows: rows, Cols: cols, tiles: make([]tile.Tile, rows*cols)}
	g.Positions(func(p Position, _ tile.Tile) {
		switch {
		case g.isCorner(p):
			g.Set(p, tile.Tile{Type: tile.Corner, Orientation: cornerOrientation(p, rows, cols)})
		case g.Immovable(p):
			g.Set(p, tile.Tile{Type: tile.TJunction, Orientation: perimeterOrientation(p, rows, cols)})
		case g.InteriorImmovable(p):
			drawn := d.Draw()
			for drawn.Type == tile.DeadEnd {
				d.Discard(drawn)
				drawn = d.Draw()
			}
			drawn.Decay = rollDecay(weights, cfg, cfg.Rng)
			g.Set(p, drawn)
		default:
			drawn := d.Draw()
			drawn.Decay = rollDecay(weights, cfg, cfg.Rng)
			g.Set(p, drawn)
		}
	})

	return g, nil
}

func rollDecay(weights []int, cfg GenerateConfig, rng *rand.Rand) int {
	if cfg.SafeRoom {
		return 0
	}
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	r := rng.Intn(total)
	for level, w := range weights {
		r -= w
		if r < 0 {
			if level > tile.MaxDecay {
				return tile.MaxDecay
			}
			return level
		}
	}
	return 0
}
