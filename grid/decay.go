package grid

import (
	"math/rand"

	"github.com/milk9111/dungeonshift/tile"
)

// DecayPolicy parameterizes how decay maps to fall-through risk and how much
// decay gameplay actions inject. The curve is a policy knob, not a rule of
// the simulation; pathfinding and the turn loop only ever consult it through
// these accessors.
type DecayPolicy struct {
	// Curve maps decay level to fall-through probability, indexed by level.
	Curve []float64
	// AvoidThreshold is the fall probability at or above which ground units
	// refuse to route through a tile.
	AvoidThreshold float64
	// MaxLineIncrease bounds the per-tile uniform decay bump applied to a
	// just-pushed line.
	MaxLineIncrease int
	// DemolitionBumps is how many random decay increments a wall demolition
	// scatters across the board.
	DemolitionBumps int
}

// DefaultDecayPolicy returns the shipped tuning.
func DefaultDecayPolicy() DecayPolicy {
	return DecayPolicy{
		Curve:           []float64{0, 0.1, 0.25, 0.5, 1},
		AvoidThreshold:  0.75,
		MaxLineIncrease: 2,
		DemolitionBumps: 3,
	}
}

// FallChance returns the fall-through probability for a decay level. Levels
// past the end of the curve saturate at the last entry.
func (p DecayPolicy) FallChance(level int) float64 {
	if len(p.Curve) == 0 {
		return 0
	}
	if level < 0 {
		level = 0
	}
	if level >= len(p.Curve) {
		level = len(p.Curve) - 1
	}
	return p.Curve[level]
}

// Avoid reports whether a ground unit should refuse to enter a tile with the
// given decay level. A zero-value policy disables avoidance entirely, so
// callers that don't care about hazards can pass DecayPolicy{}.
func (p DecayPolicy) Avoid(level int) bool {
	if p.AvoidThreshold <= 0 {
		return false
	}
	return p.FallChance(level) >= p.AvoidThreshold
}

// AddDecay bumps the tile at p by n, clamped to the tile's range.
func (g *Grid) AddDecay(p Position, n int) {
	t := g.At(p)
	t.AddDecay(n)
	g.Set(p, t)
}

// IncreaseRandomDecay picks one tile uniformly at random among tiles that are
// below max decay and not in skip, and increments its decay. A fully decayed
// board is left alone.
func (g *Grid) IncreaseRandomDecay(rng *rand.Rand, skip map[Position]bool) {
	var candidates []Position
	g.Positions(func(p Position, t tile.Tile) {
		if t.Decay >= tile.MaxDecay || skip[p] {
			return
		}
		candidates = append(candidates, p)
	})
	if len(candidates) == 0 {
		return
	}
	g.AddDecay(candidates[rng.Intn(len(candidates))], 1)
}

// IncreaseDecayInLine bumps every tile in the plot's push line by an
// independent uniform(0, maxIncrease) amount, skipping tiles in skip.
func (g *Grid) IncreaseDecayInLine(p Plot, maxIncrease int, rng *rand.Rand, skip map[Position]bool) {
	if maxIncrease <= 0 {
		return
	}
	for _, pos := range g.Line(p) {
		if skip[pos] {
			continue
		}
		g.AddDecay(pos, rng.Intn(maxIncrease+1))
	}
}
