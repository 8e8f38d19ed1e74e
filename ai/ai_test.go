package ai

import (
	"math/rand"
	"testing"

	"github.com/milk9111/dungeonshift/grid"
	"github.com/milk9111/dungeonshift/object"
	"github.com/milk9111/dungeonshift/prefabs"
	"github.com/milk9111/dungeonshift/tile"
)

func allCross(rows, cols int) *grid.Grid {
	g := grid.NewEmpty(rows, cols)
	g.Positions(func(p grid.Position, _ tile.Tile) {
		g.Set(p, tile.Tile{Type: tile.Cross})
	})
	return g
}

func testCatalog(t *testing.T) *prefabs.EnemyCatalog {
	t.Helper()
	catalog, err := prefabs.LoadEnemies()
	if err != nil {
		t.Fatalf("load enemies: %v", err)
	}
	return catalog
}

func newEnemy(r *object.Registry, kind string, pos grid.Position, budget int) *object.Object {
	e := r.Create(object.KindEnemy, pos)
	e.AIKind = kind
	e.Name = kind
	e.Stats.HP = 10
	e.HP = 10
	e.MovesRemaining = budget
	return e
}

func TestCatalogBehaviorsRegistered(t *testing.T) {
	for _, e := range testCatalog(t).Enemies {
		if _, ok := Lookup(e.AI); !ok {
			t.Fatalf("expected behavior %q for %s to be registered", e.AI, e.Name)
		}
	}
}

func TestHunterClosesDistance(t *testing.T) {
	g := allCross(1, 7)
	r := object.NewRegistry()
	e := newEnemy(r, "hunter", grid.Position{Row: 0, Col: 0}, 5)
	player := grid.Position{Row: 0, Col: 3}

	mv := Hunter(&Context{
		Grid:      g,
		Enemy:     e,
		PlayerPos: player,
		Blocked:   map[grid.Position]bool{player: true},
		Policy:    grid.DefaultDecayPolicy(),
	})
	if mv == nil || len(mv.Path) < 2 {
		t.Fatalf("expected hunter to move, got %+v", mv)
	}

	// Distance to the player shrinks monotonically along the path and ends
	// adjacent (the player's own cell is blocked).
	prev := e.Pos.Manhattan(player)
	for _, p := range mv.Path[1:] {
		d := p.Manhattan(player)
		if d >= prev {
			t.Fatalf("expected monotone approach, got %d after %d", d, prev)
		}
		prev = d
	}
	if prev != 1 {
		t.Fatalf("expected hunter to stop adjacent to the player, ended at distance %d", prev)
	}
}

func TestHunterStaysWithoutImprovement(t *testing.T) {
	g := allCross(1, 3)
	r := object.NewRegistry()
	// Already adjacent; the only reachable improvement is the blocked player cell.
	e := newEnemy(r, "hunter", grid.Position{Row: 0, Col: 1}, 3)
	player := grid.Position{Row: 0, Col: 2}

	mv := Hunter(&Context{
		Grid:      g,
		Enemy:     e,
		PlayerPos: player,
		Blocked:   map[grid.Position]bool{player: true},
		Policy:    grid.DefaultDecayPolicy(),
	})
	if mv != nil {
		t.Fatalf("expected no move without improvement, got %+v", mv)
	}
}

func TestGuardianBalancesProtectedTile(t *testing.T) {
	g := allCross(1, 7)
	r := object.NewRegistry()
	e := newEnemy(r, "guardian", grid.Position{Row: 0, Col: 3}, 3)
	protected := grid.Position{Row: 0, Col: 0}
	e.ProtectedTile = &protected
	player := grid.Position{Row: 0, Col: 6}

	// Moving toward the player raises the protected-tile term by the same
	// amount it lowers the player term, so the guardian holds its post.
	mv := Guardian(&Context{
		Grid:      g,
		Enemy:     e,
		PlayerPos: player,
		Blocked:   map[grid.Position]bool{player: true},
		Policy:    grid.DefaultDecayPolicy(),
	})
	if mv != nil {
		t.Fatalf("expected guardian to hold position, got %+v", mv)
	}
}

func TestRangedFiresWithLineOfSight(t *testing.T) {
	g := allCross(1, 5)
	r := object.NewRegistry()
	e := newEnemy(r, "ranged", grid.Position{Row: 0, Col: 0}, 3)
	player := grid.Position{Row: 0, Col: 4}

	ctx := &Context{
		Grid:      g,
		Enemy:     e,
		PlayerPos: player,
		Blocked:   map[grid.Position]bool{player: true},
		Policy:    grid.DefaultDecayPolicy(),
	}
	mv := Ranged(ctx)
	if mv == nil || mv.Action != ActionRangedAttack || len(mv.Path) > 0 {
		t.Fatalf("expected stationary ranged attack, got %+v", mv)
	}

	// Wall the corridor; ranged falls back to hunting.
	g.Set(grid.Position{Row: 0, Col: 2}, tile.Tile{Type: tile.Straight})
	mv = Ranged(ctx)
	if mv != nil && mv.Action == ActionRangedAttack {
		t.Fatalf("expected hunter fallback without line of sight")
	}
}

func TestHealerTargetsFirstWoundedAlly(t *testing.T) {
	g := allCross(1, 5)
	r := object.NewRegistry()
	healer := newEnemy(r, "healer", grid.Position{Row: 0, Col: 0}, 3)
	healthy := newEnemy(r, "hunter", grid.Position{Row: 0, Col: 1}, 0)
	wounded := newEnemy(r, "hunter", grid.Position{Row: 0, Col: 2}, 0)
	wounded.HP = 4

	mv := Healer(&Context{
		Grid:      g,
		Enemy:     healer,
		PlayerPos: grid.Position{Row: 0, Col: 4},
		Blocked:   map[grid.Position]bool{},
		Enemies:   []*object.Object{healer, healthy, wounded},
		Policy:    grid.DefaultDecayPolicy(),
	})
	if mv == nil || mv.Action != ActionHeal {
		t.Fatalf("expected heal action, got %+v", mv)
	}
	if mv.Target != wounded.Handle {
		t.Fatalf("expected first wounded ally targeted")
	}
}

func TestTeleporterCadence(t *testing.T) {
	g := allCross(3, 3)
	r := object.NewRegistry()
	e := newEnemy(r, "teleporter", grid.Position{Row: 0, Col: 0}, 0)
	player := grid.Position{Row: 2, Col: 2}

	ctx := &Context{
		Grid:      g,
		Enemy:     e,
		PlayerPos: player,
		Blocked:   map[grid.Position]bool{player: true},
		Policy:    grid.DefaultDecayPolicy(),
	}

	for turn := 1; turn < teleportEvery; turn++ {
		if mv := Teleporter(ctx); mv != nil && mv.Action == ActionTeleport {
			t.Fatalf("expected no teleport before cadence, turn %d", turn)
		}
	}
	mv := Teleporter(ctx)
	if mv == nil || mv.Action != ActionTeleport {
		t.Fatalf("expected teleport at cadence, got %+v", mv)
	}
	if mv.Dest.Manhattan(player) != 1 {
		t.Fatalf("expected destination beside player, got %+v", mv.Dest)
	}
	if e.SpecialCounter != 0 {
		t.Fatalf("expected counter reset after teleport, got %d", e.SpecialCounter)
	}
}

func TestTeleporterKeepsCounterWhenBlocked(t *testing.T) {
	g := allCross(3, 3)
	r := object.NewRegistry()
	e := newEnemy(r, "teleporter", grid.Position{Row: 0, Col: 0}, 0)
	player := grid.Position{Row: 1, Col: 1}

	blocked := map[grid.Position]bool{player: true}
	for _, d := range tile.Directions() {
		blocked[player.Add(d)] = true
	}

	e.SpecialCounter = teleportEvery - 1
	mv := Teleporter(&Context{
		Grid:      g,
		Enemy:     e,
		PlayerPos: player,
		Blocked:   blocked,
		Policy:    grid.DefaultDecayPolicy(),
	})
	if mv != nil && mv.Action == ActionTeleport {
		t.Fatalf("expected blocked teleport to fail")
	}
	if e.SpecialCounter < teleportEvery {
		t.Fatalf("expected counter kept hot for retry, got %d", e.SpecialCounter)
	}
}

func TestTeleporterSkipsOwnCell(t *testing.T) {
	g := allCross(3, 3)
	r := object.NewRegistry()
	// Already adjacent to the player; the blink must not land in place.
	e := newEnemy(r, "teleporter", grid.Position{Row: 1, Col: 2}, 0)
	player := grid.Position{Row: 1, Col: 1}

	// Leave only the enemy's own cell and one other side free.
	blocked := map[grid.Position]bool{
		player:           true,
		{Row: 0, Col: 1}: true,
		{Row: 2, Col: 1}: true,
	}

	e.SpecialCounter = teleportEvery - 1
	mv := Teleporter(&Context{
		Grid:      g,
		Enemy:     e,
		PlayerPos: player,
		Blocked:   blocked,
		Policy:    grid.DefaultDecayPolicy(),
	})
	if mv == nil || mv.Action != ActionTeleport {
		t.Fatalf("expected teleport at cadence, got %+v", mv)
	}
	if mv.Dest == e.Pos {
		t.Fatalf("expected blink away from current cell, got %+v", mv.Dest)
	}
	if want := (grid.Position{Row: 1, Col: 0}); mv.Dest != want {
		t.Fatalf("expected destination %+v, got %+v", want, mv.Dest)
	}
}

func TestKingCadence(t *testing.T) {
	g := allCross(7, 7)
	r := object.NewRegistry()
	king := newEnemy(r, "king", grid.Position{Row: 3, Col: 3}, 0)
	king.SpecialCounter = kingSpawnEvery - 1
	player := grid.Position{Row: 0, Col: 1}

	rng := rand.New(rand.NewSource(21))
	catalog := testCatalog(t)

	moves := CalculateAllMoves(g, r, player, grid.DefaultDecayPolicy(), rng, catalog, nil)
	if len(moves) != 1 || moves[0].Action != ActionSpawn {
		t.Fatalf("expected boss spawn at cadence, got %+v", moves)
	}
	if moves[0].SpawnName == "hollow king" {
		t.Fatalf("expected king to never spawn another king")
	}
	if king.SpecialCounter != 0 {
		t.Fatalf("expected counter reset to 0, got %d", king.SpecialCounter)
	}

	// Counter is back at zero: the very next pass emits nothing, not even a
	// hunter fallback.
	moves = CalculateAllMoves(g, r, player, grid.DefaultDecayPolicy(), rng, catalog, nil)
	if len(moves) != 0 {
		t.Fatalf("expected stationary king outside cadence, got %+v", moves)
	}
	if king.Pos != (grid.Position{Row: 3, Col: 3}) {
		t.Fatalf("expected king to never move")
	}
}

func TestSummonerCadence(t *testing.T) {
	g := allCross(5, 5)
	r := object.NewRegistry()
	e := newEnemy(r, "summoner", grid.Position{Row: 2, Col: 2}, 0)
	e.SpecialCounter = summonEvery - 1
	player := grid.Position{Row: 0, Col: 0}

	mv := Summoner(&Context{
		Grid:      g,
		Enemy:     e,
		PlayerPos: player,
		Blocked:   map[grid.Position]bool{player: true},
		Policy:    grid.DefaultDecayPolicy(),
		Rng:       rand.New(rand.NewSource(5)),
		Catalog:   testCatalog(t),
	})
	if mv == nil || mv.Action != ActionSummon || mv.SpawnName == "" {
		t.Fatalf("expected summon at cadence, got %+v", mv)
	}
	if mv.SpawnPos == player || mv.SpawnPos == e.Pos {
		t.Fatalf("expected summon on a free cell, got %+v", mv.SpawnPos)
	}
	if e.SpecialCounter != 0 {
		t.Fatalf("expected counter reset, got %d", e.SpecialCounter)
	}
}

func TestCalculateAllMovesNoSharedDestinations(t *testing.T) {
	g := allCross(1, 7)
	r := object.NewRegistry()
	newEnemy(r, "hunter", grid.Position{Row: 0, Col: 1}, 5)
	newEnemy(r, "hunter", grid.Position{Row: 0, Col: 0}, 5)
	player := grid.Position{Row: 0, Col: 6}

	rng := rand.New(rand.NewSource(7))
	moves := CalculateAllMoves(g, r, player, grid.DefaultDecayPolicy(), rng, testCatalog(t), nil)

	dests := map[grid.Position]bool{}
	for _, mv := range moves {
		if len(mv.Path) < 2 {
			continue
		}
		dest := mv.Path[len(mv.Path)-1]
		if dests[dest] {
			t.Fatalf("expected unique destinations, %+v assigned twice", dest)
		}
		dests[dest] = true
	}
	if len(dests) != 2 {
		t.Fatalf("expected both hunters to relocate, got %d", len(dests))
	}
}

func TestLineOfSight(t *testing.T) {
	g := allCross(3, 3)
	from := grid.Position{Row: 0, Col: 0}

	if !LineOfSight(g, from, grid.Position{Row: 0, Col: 2}) {
		t.Fatalf("expected sight along open row")
	}
	if LineOfSight(g, from, grid.Position{Row: 1, Col: 1}) {
		t.Fatalf("expected no sight on diagonal")
	}

	// A vertical straight in between closes the east/west boundary.
	g.Set(grid.Position{Row: 0, Col: 1}, tile.Tile{Type: tile.Straight})
	if LineOfSight(g, from, grid.Position{Row: 0, Col: 2}) {
		t.Fatalf("expected wall to break line of sight")
	}
}

func TestScriptedBehavior(t *testing.T) {
	g := allCross(1, 7)
	r := object.NewRegistry()
	e := newEnemy(r, "scripted", grid.Position{Row: 0, Col: 3}, 2)
	e.Script = "gloomwisp.tengo"
	player := grid.Position{Row: 0, Col: 5}

	ctx := &Context{
		Grid:      g,
		Enemy:     e,
		PlayerPos: player,
		Blocked:   map[grid.Position]bool{player: true},
		Policy:    grid.DefaultDecayPolicy(),
		Scripts:   NewScriptCache(),
	}

	// Healthy and close: hunt.
	mv := Scripted(ctx)
	if mv == nil || len(mv.Path) < 2 {
		t.Fatalf("expected healthy gloomwisp to hunt, got %+v", mv)
	}

	// Wounded below half: flee away from the player.
	e.HP = 4
	mv = Scripted(ctx)
	if mv == nil || len(mv.Path) < 2 {
		t.Fatalf("expected wounded gloomwisp to flee, got %+v", mv)
	}
	dest := mv.Path[len(mv.Path)-1]
	if dest.Manhattan(player) <= e.Pos.Manhattan(player) {
		t.Fatalf("expected flee to increase distance, got %+v", dest)
	}
}
