package ai

import (
	"log"

	"github.com/milk9111/dungeonshift/grid"
	"github.com/milk9111/dungeonshift/pathfind"
	"github.com/milk9111/dungeonshift/tile"
)

// Special action cadence, in turns.
const (
	teleportEvery  = 5
	summonEvery    = 5
	kingSpawnEvery = 3
)

// Hunter greedily closes the Manhattan gap to the player. No move is emitted
// when no reachable cell improves on standing still.
func Hunter(ctx *Context) *Move {
	best := bestByScore(ctx, func(p grid.Position) int {
		return p.Manhattan(ctx.PlayerPos)
	})
	if best == nil {
		return nil
	}
	return &Move{Enemy: ctx.Enemy.Handle, Path: best.Path}
}

// Guardian balances area denial with pursuit: it minimizes the summed
// distance to its protected tile and to the player. Without a bound tile it
// degrades to Hunter.
func Guardian(ctx *Context) *Move {
	protected := ctx.Enemy.ProtectedTile
	if protected == nil {
		return Hunter(ctx)
	}
	best := bestByScore(ctx, func(p grid.Position) int {
		return p.Manhattan(*protected) + p.Manhattan(ctx.PlayerPos)
	})
	if best == nil {
		return nil
	}
	return &Move{Enemy: ctx.Enemy.Handle, Path: best.Path}
}

// bestByScore picks the reachable cell with the strictly lowest score,
// seeded with the enemy's current cell so standing still wins ties. BFS
// visitation order breaks score ties among candidates.
func bestByScore(ctx *Context, score func(grid.Position) int) *pathfind.Node {
	var best *pathfind.Node
	bestScore := score(ctx.Enemy.Pos)
	for _, n := range pathfind.Reachable(ctx.Grid, ctx.Enemy.Pos, ctx.searchOptions()) {
		n := n
		if s := score(n.Pos); s < bestScore {
			bestScore = s
			best = &n
		}
	}
	return best
}

// Ranged holds position and fires whenever it has line of sight to the
// player, otherwise it hunts.
func Ranged(ctx *Context) *Move {
	if LineOfSight(ctx.Grid, ctx.Enemy.Pos, ctx.PlayerPos) {
		return &Move{Enemy: ctx.Enemy.Handle, Action: ActionRangedAttack}
	}
	return Hunter(ctx)
}

// Healer tends the first wounded ally it can see, otherwise it hunts.
func Healer(ctx *Context) *Move {
	for _, ally := range ctx.Enemies {
		if ally == ctx.Enemy || !ally.Alive() || ally.HP >= ally.Stats.HP {
			continue
		}
		if LineOfSight(ctx.Grid, ctx.Enemy.Pos, ally.Pos) {
			return &Move{Enemy: ctx.Enemy.Handle, Action: ActionHeal, Target: ally.Handle}
		}
	}
	return Hunter(ctx)
}

// Teleporter hunts until its counter hits the cadence, then blinks to a free
// cell beside the player. A failed blink keeps the counter hot so it retries
// next turn.
func Teleporter(ctx *Context) *Move {
	ctx.Enemy.SpecialCounter++
	if ctx.Enemy.SpecialCounter >= teleportEvery {
		for _, d := range tile.Directions() {
			dest := ctx.PlayerPos.Add(d)
			// Blinking onto its own cell would burn the charge on a no-op.
			if dest == ctx.Enemy.Pos || !ctx.Grid.Contains(dest) || ctx.Blocked[dest] {
				continue
			}
			ctx.Enemy.SpecialCounter = 0
			return &Move{Enemy: ctx.Enemy.Handle, Action: ActionTeleport, Dest: dest}
		}
	}
	return Hunter(ctx)
}

// Summoner hunts until its counter hits the cadence, then calls in a random
// lesser enemy on a random free cell.
func Summoner(ctx *Context) *Move {
	ctx.Enemy.SpecialCounter++
	if ctx.Enemy.SpecialCounter >= summonEvery {
		if pos, ok := randomFreeCell(ctx); ok {
			if name, ok := randomSpawnName(ctx); ok {
				ctx.Enemy.SpecialCounter = 0
				return &Move{Enemy: ctx.Enemy.Handle, Action: ActionSummon, SpawnPos: pos, SpawnName: name}
			}
		}
	}
	return Hunter(ctx)
}

// King never moves. Every few turns it spawns a random enemy on a random
// free cell; outside that cadence it does nothing at all.
func King(ctx *Context) *Move {
	ctx.Enemy.SpecialCounter++
	if ctx.Enemy.SpecialCounter < kingSpawnEvery {
		return nil
	}
	pos, ok := randomFreeCell(ctx)
	if !ok {
		return nil
	}
	name, ok := randomSpawnName(ctx)
	if !ok {
		return nil
	}
	ctx.Enemy.SpecialCounter = 0
	return &Move{Enemy: ctx.Enemy.Handle, Action: ActionSpawn, SpawnPos: pos, SpawnName: name}
}

// Scripted defers the mode choice to the enemy's tengo script, hunting on
// any script failure.
func Scripted(ctx *Context) *Move {
	if ctx.Scripts == nil || ctx.Enemy.Script == "" {
		return Hunter(ctx)
	}
	mode, err := ctx.Scripts.Decide(ctx.Enemy.Script, scriptContext(ctx))
	if err != nil {
		log.Printf("ai: %s script %s: %v", ctx.Enemy.Name, ctx.Enemy.Script, err)
		return Hunter(ctx)
	}
	switch mode {
	case "wait":
		return nil
	case "flee":
		best := bestByScore(ctx, func(p grid.Position) int {
			return -p.Manhattan(ctx.PlayerPos)
		})
		if best == nil {
			return nil
		}
		return &Move{Enemy: ctx.Enemy.Handle, Path: best.Path}
	default:
		return Hunter(ctx)
	}
}

func scriptContext(ctx *Context) map[string]interface{} {
	return map[string]interface{}{
		"hp":                 ctx.Enemy.HP,
		"max_hp":             ctx.Enemy.Stats.HP,
		"row":                ctx.Enemy.Pos.Row,
		"col":                ctx.Enemy.Pos.Col,
		"player_row":         ctx.PlayerPos.Row,
		"player_col":         ctx.PlayerPos.Col,
		"distance_to_player": ctx.Enemy.Pos.Manhattan(ctx.PlayerPos),
	}
}

// randomFreeCell picks a uniformly random cell that isn't the player, the
// enemy itself, or otherwise occupied.
func randomFreeCell(ctx *Context) (grid.Position, bool) {
	var free []grid.Position
	ctx.Grid.Positions(func(p grid.Position, _ tile.Tile) {
		if p == ctx.PlayerPos || p == ctx.Enemy.Pos || ctx.Blocked[p] {
			return
		}
		free = append(free, p)
	})
	if len(free) == 0 {
		return grid.Position{}, false
	}
	return free[ctx.Rng.Intn(len(free))], true
}

// randomSpawnName picks a uniformly random catalog enemy, excluding bosses
// so a king never spawns another king.
func randomSpawnName(ctx *Context) (string, bool) {
	if ctx.Catalog == nil {
		return "", false
	}
	var names []string
	for _, e := range ctx.Catalog.Enemies {
		if e.AI == "king" || e.Name == ctx.Enemy.Name {
			continue
		}
		names = append(names, e.Name)
	}
	if len(names) == 0 {
		return "", false
	}
	return names[ctx.Rng.Intn(len(names))], true
}

// LineOfSight reports whether a straight row or column path connects two
// cells with matching openings across every intermediate boundary.
func LineOfSight(g *grid.Grid, from, to grid.Position) bool {
	if from == to {
		return true
	}
	var d tile.Direction
	switch {
	case from.Row == to.Row && to.Col > from.Col:
		d = tile.East
	case from.Row == to.Row:
		d = tile.West
	case from.Col == to.Col && to.Row > from.Row:
		d = tile.South
	case from.Col == to.Col:
		d = tile.North
	default:
		return false
	}
	for cur := from; cur != to; {
		next := cur.Add(d)
		if !g.CanTraverse(cur, next) {
			return false
		}
		cur = next
	}
	return true
}
