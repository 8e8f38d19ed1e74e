package game

import (
	"log"

	"github.com/milk9111/dungeonshift/ai"
	"github.com/milk9111/dungeonshift/combat"
	"github.com/milk9111/dungeonshift/grid"
	"github.com/milk9111/dungeonshift/object"
	"github.com/milk9111/dungeonshift/pathfind"
)

// executePush is the single transaction that keeps tiles and objects in
// agreement: shift the line, shift or destroy the objects standing on it,
// recycle the ejected tile, inject decay, and draw a replacement into hand.
func (s *Session) executePush(p grid.Plot) {
	incoming := *s.inHand
	newGrid, ejected := s.grid.Push(p, incoming)
	s.grid = newGrid

	for _, h := range s.registry.HandlePush(s.grid, p) {
		if h == s.player {
			s.gameOver = true
		}
	}

	s.deck.Discard(ejected)

	skip := s.exitPositions()
	s.grid.IncreaseDecayInLine(p, s.cfg.Policy.MaxLineIncrease, s.rng, skip)
	s.grid.IncreaseRandomDecay(s.rng, skip)

	held := s.deck.Draw()
	s.inHand = &held
	s.selectedPlot = nil
}

// movePlayerTo walks the player step by step so every intermediate tile's
// triggers fire in order. Reports whether the move happened.
func (s *Session) movePlayerTo(dest grid.Position) bool {
	player, ok := s.registry.Get(s.player)
	if !ok {
		return false
	}
	blocked := map[grid.Position]bool{}
	for _, o := range s.registry.All() {
		if o.Kind == object.KindEnemy {
			blocked[o.Pos] = true
		}
	}
	path := pathfind.PathTo(s.grid, player.Pos, dest, pathfind.Options{
		MaxDistance: player.MovesRemaining,
		Blocked:     blocked,
		Flying:      player.Flying,
		Policy:      s.cfg.Policy,
	})
	if path == nil {
		return false
	}
	if !s.registry.SpendMovement(player, len(path)-1) {
		return false
	}
	for _, step := range path[1:] {
		prev := player.Pos
		player.Pos = step
		s.registry.CheckInteractions(player, prev)
	}
	return true
}

// attack resolves a melee exchange against an adjacent enemy. The defender
// retaliates if it survives. Reports whether the attack was legal.
func (s *Session) attack(target object.Handle) bool {
	player, ok := s.registry.Get(s.player)
	if !ok {
		return false
	}
	enemy, ok := s.registry.Get(target)
	if !ok || enemy.Kind != object.KindEnemy {
		return false
	}
	if !s.grid.CanTraverse(player.Pos, enemy.Pos) {
		return false
	}
	s.resolveCombat(player, enemy)
	return true
}

// demolishWall knocks down the wall between two cells the player stands next
// to. Reports whether the demolition was legal.
func (s *Session) demolishWall(from, to grid.Position) bool {
	player, ok := s.registry.Get(s.player)
	if !ok {
		return false
	}
	if from != player.Pos {
		return false
	}
	if !s.grid.IsBlocking(from, to) {
		return false
	}
	return s.grid.OpenWall(from, to, s.cfg.Policy.DemolitionBumps, s.rng, s.exitPositions())
}

// resolveCombat runs a full exchange and writes the surviving hit points
// back, handling deaths on both sides.
func (s *Session) resolveCombat(attacker, defender *object.Object) {
	a := combat.Fighter{Stats: attacker.Stats, HP: attacker.HP}
	d := combat.Fighter{Stats: defender.Stats, HP: defender.HP}
	combat.Resolve(&a, &d, s.roll)
	attacker.HP = a.HP
	defender.HP = d.HP

	if !defender.Alive() {
		s.handleDeath(defender)
	}
	if !attacker.Alive() {
		s.handleDeath(attacker)
	}
}

func (s *Session) handleDeath(o *object.Object) {
	if o.Handle == s.player {
		s.gameOver = true
		return
	}
	pos := o.Pos
	chance := o.DropChance
	s.registry.Destroy(o.Handle)
	if chance > 0 && s.rng.Float64() < chance {
		s.dropItem(pos)
	}
}

// dropItem places a random catalog item on pos. Walking onto it picks it up.
func (s *Session) dropItem(pos grid.Position) {
	if s.items == nil || len(s.items.Items) == 0 {
		return
	}
	spec := s.items.Items[s.rng.Intn(len(s.items.Items))]
	item := s.registry.Create(object.KindItem, pos)
	item.Name = spec.Name
	item.OnEnter = func(self, mover *object.Object) {
		if mover.Handle != s.player {
			return
		}
		mover.Stats.Atk += spec.Atk
		mover.Stats.Def += spec.Def
		mover.Stats.Agi += spec.Agi
		mover.Stats.HP += spec.HP
		mover.HP += spec.HP
		s.registry.Destroy(self.Handle)
	}
}

// endPlayerTurn hands control to the enemies, applies end-of-round decay
// falls, and opens the next player turn.
func (s *Session) endPlayerTurn() {
	if s.gameOver {
		return
	}
	if s.descendQueued {
		s.descend()
		return
	}

	s.turn = EnemyTurn
	s.notify()
	s.runEnemyTurn()
	s.applyFallThrough()

	if s.descendQueued {
		s.descend()
		return
	}
	if s.gameOver {
		return
	}

	s.turn = PlayerTurn
	if player, ok := s.registry.Get(s.player); ok {
		s.registry.ResetTurnMovement(player)
	}
}

// runEnemyTurn computes every enemy intent up front, then commits them in
// registration order. An enemy killed by an earlier commit in the same pass
// forfeits its move.
func (s *Session) runEnemyTurn() {
	player, ok := s.registry.Get(s.player)
	if !ok {
		s.gameOver = true
		return
	}

	for _, o := range s.registry.All() {
		if o.Kind == object.KindEnemy {
			s.registry.ResetTurnMovement(o)
		}
	}

	moves := ai.CalculateAllMoves(s.grid, s.registry, player.Pos, s.cfg.Policy, s.rng, s.catalog, s.scripts)
	for _, mv := range moves {
		if s.gameOver {
			return
		}
		s.commitEnemyMove(mv, player)
	}
}

// commitEnemyMove applies one enemy intent: relocation, then the special
// action or a melee strike if the enemy ended up beside the player.
func (s *Session) commitEnemyMove(mv ai.Move, player *object.Object) {
	enemy, ok := s.registry.Get(mv.Enemy)
	if !ok {
		return
	}

	if len(mv.Path) > 1 {
		if s.registry.SpendMovement(enemy, len(mv.Path)-1) {
			for _, step := range mv.Path[1:] {
				prev := enemy.Pos
				enemy.Pos = step
				s.registry.CheckInteractions(enemy, prev)
			}
		}
	}

	switch mv.Action {
	case ai.ActionRangedAttack:
		a := combat.Fighter{Stats: enemy.Stats, HP: enemy.HP}
		d := combat.Fighter{Stats: player.Stats, HP: player.HP}
		combat.Strike(&a, &d, s.roll)
		player.HP = d.HP
		if !player.Alive() {
			s.gameOver = true
		}
	case ai.ActionHeal:
		if target, ok := s.registry.Get(mv.Target); ok {
			target.HP += healAmount
			if target.HP > target.Stats.HP {
				target.HP = target.Stats.HP
			}
		}
	case ai.ActionTeleport:
		prev := enemy.Pos
		enemy.Pos = mv.Dest
		s.registry.CheckInteractions(enemy, prev)
	case ai.ActionSummon, ai.ActionSpawn:
		if _, err := s.spawnEnemy(mv.SpawnName, mv.SpawnPos); err != nil {
			log.Printf("game: %s summon failed: %v", enemy.Name, err)
		}
	case ai.ActionNone:
		if enemy.Pos.Manhattan(player.Pos) == 1 && s.grid.CanTraverse(enemy.Pos, player.Pos) {
			s.resolveCombat(enemy, player)
		}
	}
}

// applyFallThrough rolls every grounded object against its tile's collapse
// chance at the end of the round. Enemies and items are destroyed outright;
// the player takes fall damage and drops to the next floor.
func (s *Session) applyFallThrough() {
	for _, o := range s.registry.All() {
		if o.Flying || o.Kind == object.KindExit {
			continue
		}
		chance := s.cfg.Policy.FallChance(s.grid.At(o.Pos).Decay)
		if chance <= 0 || s.rng.Float64() >= chance {
			continue
		}
		if o.Handle == s.player {
			o.HP -= fallDamage
			if !o.Alive() {
				s.gameOver = true
				return
			}
			s.descendQueued = true
			continue
		}
		s.registry.Destroy(o.Handle)
	}
}

// descend moves the run to the next floor.
func (s *Session) descend() {
	s.descendQueued = false
	s.floor++
	if err := s.setupFloor(); err != nil {
		log.Printf("game: floor %d setup failed: %v", s.floor, err)
		s.gameOver = true
		return
	}
	s.turn = PlayerTurn
	if player, ok := s.registry.Get(s.player); ok {
		s.registry.ResetTurnMovement(player)
	}
	if s.OnDescend != nil {
		s.OnDescend(s.floor)
	}
}
