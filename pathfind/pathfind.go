// Package pathfind runs breadth-first reachability over the grid's
// connectivity graph. It only ever reads the board; movement itself is
// committed elsewhere.
package pathfind

import (
	"github.com/milk9111/dungeonshift/grid"
	"github.com/milk9111/dungeonshift/tile"
)

// Node is one reachable cell: its BFS distance from the start and the full
// path taken, start cell first.
type Node struct {
	Pos      grid.Position
	Distance int
	Path     []grid.Position
}

// Options filters a reachability search.
type Options struct {
	// MaxDistance bounds expansion in hops. Zero or negative yields no results.
	MaxDistance int
	// Blocked cells are pruned before traversal and never reported.
	Blocked map[grid.Position]bool
	// Flying units ignore decay hazards entirely.
	Flying bool
	// Policy supplies the decay avoidance threshold for ground units. The
	// zero value avoids nothing, so hazard-blind searches can leave it unset.
	Policy grid.DecayPolicy
}

// Reachable returns every cell reachable from start within the option
// bounds, in BFS visitation order. The start cell itself is excluded. Ties
// are broken by discovery order: the first shortest path found wins.
func Reachable(g *grid.Grid, start grid.Position, opts Options) []Node {
	if g == nil || !g.Contains(start) || opts.MaxDistance <= 0 {
		return nil
	}

	visited := map[grid.Position]bool{start: true}
	queue := []Node{{Pos: start, Distance: 0, Path: []grid.Position{start}}}
	var out []Node

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Distance >= opts.MaxDistance {
			continue
		}

		for _, d := range tile.Directions() {
			next := cur.Pos.Add(d)
			if visited[next] || !g.Contains(next) {
				continue
			}
			if !g.CanTraverse(cur.Pos, next) {
				continue
			}
			if opts.Blocked[next] {
				continue
			}
			if !opts.Flying && opts.Policy.Avoid(g.At(next).Decay) {
				continue
			}

			visited[next] = true
			path := make([]grid.Position, len(cur.Path), len(cur.Path)+1)
			copy(path, cur.Path)
			path = append(path, next)

			node := Node{Pos: next, Distance: cur.Distance + 1, Path: path}
			out = append(out, node)
			queue = append(queue, node)
		}
	}

	return out
}

// PathTo returns the shortest path from start to target within the option
// bounds, start cell first, or nil if the target is out of reach.
func PathTo(g *grid.Grid, start, target grid.Position, opts Options) []grid.Position {
	for _, n := range Reachable(g, start, opts) {
		if n.Pos == target {
			return n.Path
		}
	}
	return nil
}
