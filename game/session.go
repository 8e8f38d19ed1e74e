// Package game owns the turn/phase state machine and is the only component
// allowed to mutate the grid and the object registry. Everything else hands
// it intents and reads snapshots back.
package game

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/milk9111/dungeonshift/ai"
	"github.com/milk9111/dungeonshift/combat"
	"github.com/milk9111/dungeonshift/deck"
	"github.com/milk9111/dungeonshift/grid"
	"github.com/milk9111/dungeonshift/object"
	"github.com/milk9111/dungeonshift/pathfind"
	"github.com/milk9111/dungeonshift/prefabs"
	"github.com/milk9111/dungeonshift/tile"
)

// TurnOwner says whose turn it is at the top level.
type TurnOwner uint8

const (
	PlayerTurn TurnOwner = iota
	EnemyTurn
)

func (t TurnOwner) String() string {
	if t == EnemyTurn {
		return "enemy"
	}
	return "player"
}

// PhaseKind identifies the player's nested sub-phase.
type PhaseKind uint8

const (
	PhaseAwaiting PhaseKind = iota
	PhasePlacement
	PhaseMoving
	PhaseRotating
)

func (p PhaseKind) String() string {
	switch p {
	case PhasePlacement:
		return "tile_placement"
	case PhaseMoving:
		return "moving"
	case PhaseRotating:
		return "rotating_tile"
	}
	return "awaiting_action"
}

// Fallback player stats used when no external definition is supplied.
var basePlayerStats = combat.Stats{HP: 30, Atk: 6, Def: 2, Agi: 5}

const (
	playerSpeed    = 4.0
	healAmount     = 5
	fallDamage     = 3
	bossFloorEvery = 4
	bossName       = "hollow king"
)

// Config is the session tuning, usually derived from prefabs/config.yaml.
type Config struct {
	Rows        int
	Cols        int
	DeckReserve int
	DeckWeights deck.Weights

	DecayWeights []int
	Policy       grid.DecayPolicy

	SafeRooms       int
	BaseEnemies     int
	EnemiesPerFloor int

	Seed int64
}

// DefaultConfig returns the reference 7x7 tuning.
func DefaultConfig() Config {
	return Config{
		Rows:            7,
		Cols:            7,
		DeckReserve:     10,
		DeckWeights:     deck.DefaultWeights(),
		DecayWeights:    grid.DefaultDecayWeights(),
		Policy:          grid.DefaultDecayPolicy(),
		SafeRooms:       1,
		BaseEnemies:     3,
		EnemiesPerFloor: 1,
		Seed:            1,
	}
}

// ConfigFromSpec maps the yaml tuning block onto a Config, filling gaps with
// defaults.
func ConfigFromSpec(spec *prefabs.ConfigSpec) Config {
	cfg := DefaultConfig()
	if spec == nil {
		return cfg
	}
	if spec.Grid.Rows > 0 {
		cfg.Rows = spec.Grid.Rows
	}
	if spec.Grid.Cols > 0 {
		cfg.Cols = spec.Grid.Cols
	}
	if spec.Grid.DeckReserve > 0 {
		cfg.DeckReserve = spec.Grid.DeckReserve
	}
	if len(spec.Decay.Weights) > 0 {
		cfg.DecayWeights = spec.Decay.Weights
	}
	if len(spec.Decay.Curve) > 0 {
		cfg.Policy.Curve = spec.Decay.Curve
	}
	if spec.Decay.AvoidThreshold > 0 {
		cfg.Policy.AvoidThreshold = spec.Decay.AvoidThreshold
	}
	if spec.Decay.MaxLineIncrease > 0 {
		cfg.Policy.MaxLineIncrease = spec.Decay.MaxLineIncrease
	}
	if spec.Decay.DemolitionBumps > 0 {
		cfg.Policy.DemolitionBumps = spec.Decay.DemolitionBumps
	}
	if len(spec.DeckWeights) > 0 {
		weights := deck.Weights{}
		for name, w := range spec.DeckWeights {
			typ, ok := tileTypeByName(name)
			if !ok {
				log.Printf("game: unknown deck weight tile type %q, skipping", name)
				continue
			}
			weights[typ] = w
		}
		if len(weights) > 0 {
			cfg.DeckWeights = weights
		}
	}
	if spec.Floors.SafeRooms > 0 {
		cfg.SafeRooms = spec.Floors.SafeRooms
	}
	if spec.Floors.BaseEnemies > 0 {
		cfg.BaseEnemies = spec.Floors.BaseEnemies
	}
	if spec.Floors.EnemiesPerFloor > 0 {
		cfg.EnemiesPerFloor = spec.Floors.EnemiesPerFloor
	}
	return cfg
}

func tileTypeByName(name string) (tile.Type, bool) {
	for _, typ := range tile.Types() {
		if typ.String() == name {
			return typ, true
		}
	}
	return 0, false
}

// Session is the aggregate game state plus the coordinator that applies
// validated intents to it.
type Session struct {
	cfg     Config
	rng     *rand.Rand
	catalog *prefabs.EnemyCatalog
	items   *prefabs.ItemCatalog
	scripts *ai.ScriptCache

	grid     *grid.Grid
	deck     *deck.Deck
	registry *object.Registry
	player   object.Handle

	inHand        *tile.Tile
	selectedPlot  *grid.Plot
	turn          TurnOwner
	phase         phase
	floor         int
	gameOver      bool
	descendQueued bool

	onChange func()
	// OnDescend fires after a floor transition completes, with the new floor.
	OnDescend func(floor int)
}

// NewSession starts a run on floor 1.
func NewSession(cfg Config, catalog *prefabs.EnemyCatalog, items *prefabs.ItemCatalog) (*Session, error) {
	if catalog == nil {
		return nil, fmt.Errorf("game: session requires an enemy catalog")
	}
	s := &Session{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		catalog: catalog,
		items:   items,
		scripts: ai.NewScriptCache(),
	}

	reg := object.NewRegistry()
	s.registry = reg
	player := reg.Create(object.KindPlayer, grid.Position{})
	player.Name = "player"
	player.Stats = basePlayerStats
	player.HP = basePlayerStats.HP
	player.Speed = playerSpeed
	s.player = player.Handle

	s.floor = 1
	if err := s.setupFloor(); err != nil {
		return nil, err
	}

	reg.ResetTurnMovement(player)
	s.turn = PlayerTurn
	s.phase = awaiting
	s.phase.enter(s)
	return s, nil
}

// setupFloor builds a fresh grid, deck, exit, and enemy set, keeping the
// player object across the transition.
func (s *Session) setupFloor() error {
	// Everything but the player dies with the old floor.
	for _, o := range s.registry.All() {
		if o.Handle != s.player {
			s.registry.Destroy(o.Handle)
		}
	}

	s.deck = deck.New(s.cfg.Rows*s.cfg.Cols+s.cfg.DeckReserve, s.cfg.DeckWeights, s.rng)
	g, err := grid.Generate(s.cfg.Rows, s.cfg.Cols, s.deck, grid.GenerateConfig{
		DecayWeights: s.cfg.DecayWeights,
		SafeRoom:     s.floor <= s.cfg.SafeRooms,
		Rng:          s.rng,
	})
	if err != nil {
		return err
	}
	s.grid = g

	player, _ := s.registry.Get(s.player)
	player.Pos = grid.Position{Row: s.cfg.Rows / 2, Col: s.cfg.Cols / 2}

	exitPos, ok := s.randomFreeCell()
	if !ok {
		return fmt.Errorf("game: no free cell for exit")
	}
	exit := s.registry.Create(object.KindExit, exitPos)
	exit.Name = "exit"
	exit.OnEnter = func(_, mover *object.Object) {
		if mover.Handle == s.player {
			s.descendQueued = true
		}
	}

	count := s.cfg.BaseEnemies + s.cfg.EnemiesPerFloor*(s.floor-1)
	pool := s.catalog.ByMaxTier(s.floor)
	for i := 0; i < count && len(pool) > 0; i++ {
		spec := pool[s.rng.Intn(len(pool))]
		pos, ok := s.randomFreeCell()
		if !ok {
			break
		}
		if _, err := s.spawnEnemy(spec.Name, pos); err != nil {
			log.Printf("game: floor %d spawn failed: %v", s.floor, err)
		}
	}
	if s.floor%bossFloorEvery == 0 {
		if pos, ok := s.randomFreeCell(); ok {
			if _, err := s.spawnEnemy(bossName, pos); err != nil {
				log.Printf("game: boss spawn failed: %v", err)
			}
		}
	}

	held := s.deck.Draw()
	s.inHand = &held
	s.selectedPlot = nil
	return nil
}

// spawnEnemy creates an enemy from its catalog definition. Unknown names
// fail loudly; there is no safe default enemy.
func (s *Session) spawnEnemy(name string, pos grid.Position) (*object.Object, error) {
	spec, ok := s.catalog.Find(name)
	if !ok {
		return nil, fmt.Errorf("game: unknown enemy %q", name)
	}
	e := s.registry.Create(object.KindEnemy, pos)
	e.Name = spec.Name
	e.Stats = combat.Stats{HP: spec.HP, Atk: spec.Atk, Def: spec.Def, Agi: spec.Agi}
	e.HP = spec.HP
	e.Speed = spec.Speed
	e.AIKind = spec.AI
	e.Script = spec.Script
	e.Tier = spec.Tier
	e.DropChance = spec.DropChance
	e.Flying = spec.Flying
	if spec.AI == "guardian" {
		protected := pos
		e.ProtectedTile = &protected
	}
	return e, nil
}

// randomFreeCell picks a uniformly random unoccupied cell.
func (s *Session) randomFreeCell() (grid.Position, bool) {
	occupied := map[grid.Position]bool{}
	for _, o := range s.registry.All() {
		occupied[o.Pos] = true
	}
	var free []grid.Position
	s.grid.Positions(func(p grid.Position, _ tile.Tile) {
		if !occupied[p] {
			free = append(free, p)
		}
	})
	if len(free) == 0 {
		return grid.Position{}, false
	}
	return free[s.rng.Intn(len(free))], true
}

// exitPositions is the decay skip set: tiles under an exit never decay.
func (s *Session) exitPositions() map[grid.Position]bool {
	skip := map[grid.Position]bool{}
	for _, o := range s.registry.All() {
		if o.Kind == object.KindExit {
			skip[o.Pos] = true
		}
	}
	return skip
}

func (s *Session) roll() float64 {
	return s.rng.Float64() * 100
}

// HandleCatalogChange applies a catalog or script file edit to the running
// session. Script edits drop the compiled copy so the next AI turn recompiles;
// catalog edits re-read the definitions, affecting future spawns and drops.
// Grid tuning is only read at session start and is left alone.
func (s *Session) HandleCatalogChange(path string) {
	if strings.HasSuffix(path, ".tengo") {
		s.scripts.Invalidate(filepath.Base(path))
		return
	}
	if enemies, err := prefabs.LoadEnemies(); err == nil {
		s.catalog = enemies
	} else {
		log.Printf("game: reload enemies: %v", err)
	}
	if items, err := prefabs.LoadItems(); err == nil {
		s.items = items
	} else {
		log.Printf("game: reload items: %v", err)
	}
}

// SetOnChange registers the render notification fired after every committed
// mutation.
func (s *Session) SetOnChange(fn func()) {
	s.onChange = fn
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// ObjectSnapshot is a read-only copy of one map object.
type ObjectSnapshot struct {
	Handle         object.Handle
	Kind           object.Kind
	Name           string
	Pos            grid.Position
	HP             int
	MaxHP          int
	Flying         bool
	MovesRemaining int
}

func snapshotObject(o *object.Object) ObjectSnapshot {
	return ObjectSnapshot{
		Handle:         o.Handle,
		Kind:           o.Kind,
		Name:           o.Name,
		Pos:            o.Pos,
		HP:             o.HP,
		MaxHP:          o.Stats.HP,
		Flying:         o.Flying,
		MovesRemaining: o.MovesRemaining,
	}
}

// State is a point-in-time snapshot of the aggregate game state. The grid is
// a structural copy, so renderers and AI previews can never observe a torn
// board mid-mutation.
type State struct {
	Grid         *grid.Grid
	InHand       *tile.Tile
	SelectedPlot *grid.Plot
	Turn         TurnOwner
	Phase        PhaseKind
	RotatingPos  *grid.Position
	Floor        int
	GameOver     bool
	Player       ObjectSnapshot
	Objects      []ObjectSnapshot
}

// GetState snapshots the session for read-only consumers.
func (s *Session) GetState() State {
	st := State{
		Grid:     s.grid.Clone(),
		Turn:     s.turn,
		Phase:    s.phase.kind(),
		Floor:    s.floor,
		GameOver: s.gameOver,
	}
	if s.inHand != nil {
		held := *s.inHand
		st.InHand = &held
	}
	if s.selectedPlot != nil {
		sel := *s.selectedPlot
		st.SelectedPlot = &sel
	}
	if rot, ok := s.phase.(*rotatingPhase); ok {
		pos := rot.pos
		st.RotatingPos = &pos
	}
	if player, ok := s.registry.Get(s.player); ok {
		st.Player = snapshotObject(player)
	}
	for _, o := range s.registry.All() {
		st.Objects = append(st.Objects, snapshotObject(o))
	}
	return st
}

// GetPlots enumerates the board's insertion points.
func (s *Session) GetPlots() []grid.Plot {
	return grid.PlotPositions(s.cfg.Rows, s.cfg.Cols)
}

// GetMapObjects returns snapshots of every live object in registration order.
func (s *Session) GetMapObjects() []ObjectSnapshot {
	var out []ObjectSnapshot
	for _, o := range s.registry.All() {
		out = append(out, snapshotObject(o))
	}
	return out
}

// PlayerReachable returns the cells the player could move to this turn,
// with enemy-occupied cells blocked. The frontend uses it for move
// highlighting and path construction.
func (s *Session) PlayerReachable() []pathfind.Node {
	player, ok := s.registry.Get(s.player)
	if !ok {
		return nil
	}
	blocked := map[grid.Position]bool{}
	for _, o := range s.registry.All() {
		if o.Kind == object.KindEnemy {
			blocked[o.Pos] = true
		}
	}
	return pathfind.Reachable(s.grid, player.Pos, pathfind.Options{
		MaxDistance: player.MovesRemaining,
		Blocked:     blocked,
		Flying:      player.Flying,
		Policy:      s.cfg.Policy,
	})
}
