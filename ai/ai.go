// Package ai turns enemy state into per-turn intents. Behaviors only read
// the board and registry; every mutation they want is carried back as a Move
// for the turn coordinator to commit.
package ai

import (
	"log"
	"math/rand"

	"github.com/milk9111/dungeonshift/grid"
	"github.com/milk9111/dungeonshift/object"
	"github.com/milk9111/dungeonshift/pathfind"
	"github.com/milk9111/dungeonshift/prefabs"
)

// Action flags a special move instead of (or besides) relocation.
type Action uint8

const (
	ActionNone Action = iota
	ActionRangedAttack
	ActionHeal
	ActionTeleport
	ActionSummon
	ActionSpawn
)

// Move is one enemy's intent for the turn.
type Move struct {
	Enemy object.Handle
	// Path relocates the enemy along it when longer than one cell.
	Path   []grid.Position
	Action Action
	// Target is the heal recipient for ActionHeal.
	Target object.Handle
	// Dest is the teleport destination for ActionTeleport.
	Dest grid.Position
	// SpawnPos and SpawnName carry the summon/spawn payload.
	SpawnPos  grid.Position
	SpawnName string
}

// Context is the read-only world view handed to a behavior. Blocked is a
// point-in-time occupancy snapshot, updated incrementally by the dispatcher
// as earlier enemies in the same pass claim destinations.
type Context struct {
	Grid      *grid.Grid
	Enemy     *object.Object
	PlayerPos grid.Position
	Blocked   map[grid.Position]bool
	Enemies   []*object.Object
	Policy    grid.DecayPolicy
	Rng       *rand.Rand
	Catalog   *prefabs.EnemyCatalog
	Scripts   *ScriptCache
}

func (ctx *Context) searchOptions() pathfind.Options {
	return pathfind.Options{
		MaxDistance: ctx.Enemy.MovesRemaining,
		Blocked:     ctx.Blocked,
		Flying:      ctx.Enemy.Flying,
		Policy:      ctx.Policy,
	}
}

// Behavior produces an enemy's intent, or nil for no action this turn.
type Behavior func(*Context) *Move

var behaviors = map[string]Behavior{
	"hunter":     Hunter,
	"guardian":   Guardian,
	"ranged":     Ranged,
	"healer":     Healer,
	"teleporter": Teleporter,
	"summoner":   Summoner,
	"king":       King,
	"scripted":   Scripted,
}

// Lookup resolves a catalog ai kind to its behavior.
func Lookup(name string) (Behavior, bool) {
	b, ok := behaviors[name]
	return b, ok
}

// CalculateAllMoves sequences every enemy in registration order. Each
// enemy's just-computed destination immediately blocks the enemies after it,
// so two enemies never claim the same cell in one pass. Pure no-ops are
// dropped.
func CalculateAllMoves(g *grid.Grid, reg *object.Registry, playerPos grid.Position,
	policy grid.DecayPolicy, rng *rand.Rand, catalog *prefabs.EnemyCatalog, scripts *ScriptCache) []Move {

	var enemies []*object.Object
	for _, o := range reg.All() {
		if o.Kind == object.KindEnemy {
			enemies = append(enemies, o)
		}
	}

	occupied := make(map[object.Handle]grid.Position, len(enemies))
	for _, e := range enemies {
		occupied[e.Handle] = e.Pos
	}
	reserved := map[grid.Position]bool{}

	var moves []Move
	for _, e := range enemies {
		blocked := map[grid.Position]bool{playerPos: true}
		for h, p := range occupied {
			if h != e.Handle {
				blocked[p] = true
			}
		}
		for p := range reserved {
			blocked[p] = true
		}

		behavior, ok := Lookup(e.AIKind)
		if !ok {
			log.Printf("ai: unknown behavior %q on %s, falling back to hunter", e.AIKind, e.Name)
			behavior = Hunter
		}

		mv := behavior(&Context{
			Grid:      g,
			Enemy:     e,
			PlayerPos: playerPos,
			Blocked:   blocked,
			Enemies:   enemies,
			Policy:    policy,
			Rng:       rng,
			Catalog:   catalog,
			Scripts:   scripts,
		})
		if mv == nil {
			continue
		}
		relocates := len(mv.Path) > 1
		if !relocates && mv.Action == ActionNone {
			continue
		}

		if relocates {
			occupied[e.Handle] = mv.Path[len(mv.Path)-1]
		}
		if mv.Action == ActionTeleport {
			occupied[e.Handle] = mv.Dest
		}
		if mv.Action == ActionSummon || mv.Action == ActionSpawn {
			reserved[mv.SpawnPos] = true
		}
		moves = append(moves, *mv)
	}
	return moves
}
