package game

import (
	"github.com/milk9111/dungeonshift/grid"
	"github.com/milk9111/dungeonshift/object"
)

type intentKind uint8

const (
	intentEnterPlacement intentKind = iota
	intentSelectPlot
	intentRotateHand
	intentConfirmPlacement
	intentStartMoving
	intentMoveTo
	intentEnterRotation
	intentRotateTile
	intentConfirmRotation
	intentAttack
	intentDemolish
	intentCancel
)

type intent struct {
	kind      intentKind
	plot      grid.Plot
	clockwise bool
	dest      grid.Position
	pos       grid.Position
	target    object.Handle
	from, to  grid.Position
}

// phase is one state of the player's nested sub-phase machine. handle
// returns the next phase, or nil to stay put. Invalid intents for the
// current phase are silently dropped.
type phase interface {
	kind() PhaseKind
	enter(s *Session)
	exit(s *Session)
	handle(s *Session, in intent) phase
}

// Stateless phases are package-level singletons.
var (
	awaiting  phase = awaitingPhase{}
	placement phase = placementPhase{}
	moving    phase = movingPhase{}
)

// apply routes an intent through the current phase and commits any
// transition. Intents outside the player's turn are dropped wholesale.
func (s *Session) apply(in intent) {
	if s.gameOver || s.turn != PlayerTurn {
		return
	}
	next := s.phase.handle(s, in)
	if next != nil && next != s.phase {
		s.phase.exit(s)
		s.phase = next
		s.phase.enter(s)
	}
	s.notify()
}

// EnterPlacement begins tile placement with the in-hand tile.
func (s *Session) EnterPlacement() { s.apply(intent{kind: intentEnterPlacement}) }

// SelectPlot picks the insertion point for the pending placement.
func (s *Session) SelectPlot(p grid.Plot) { s.apply(intent{kind: intentSelectPlot, plot: p}) }

// RotateInHand rotates the in-hand tile one step.
func (s *Session) RotateInHand(clockwise bool) {
	s.apply(intent{kind: intentRotateHand, clockwise: clockwise})
}

// ConfirmPlacement pushes the in-hand tile at the selected plot and ends the
// player's turn.
func (s *Session) ConfirmPlacement() { s.apply(intent{kind: intentConfirmPlacement}) }

// StartMoving begins movement path selection.
func (s *Session) StartMoving() { s.apply(intent{kind: intentStartMoving}) }

// MoveTo walks the player to dest if it is reachable this turn, ending the
// turn on success.
func (s *Session) MoveTo(dest grid.Position) { s.apply(intent{kind: intentMoveTo, dest: dest}) }

// EnterRotation begins rotating the board tile at pos in place.
func (s *Session) EnterRotation(pos grid.Position) {
	s.apply(intent{kind: intentEnterRotation, pos: pos})
}

// RotateTile rotates the tile under consideration one step.
func (s *Session) RotateTile(clockwise bool) {
	s.apply(intent{kind: intentRotateTile, clockwise: clockwise})
}

// ConfirmRotation commits the in-place rotation and ends the player's turn.
func (s *Session) ConfirmRotation() { s.apply(intent{kind: intentConfirmRotation}) }

// Attack strikes an adjacent, traversable enemy and ends the player's turn.
func (s *Session) Attack(target object.Handle) {
	s.apply(intent{kind: intentAttack, target: target})
}

// DemolishWall knocks down the wall between two adjacent cells and ends the
// player's turn.
func (s *Session) DemolishWall(from, to grid.Position) {
	s.apply(intent{kind: intentDemolish, from: from, to: to})
}

// Cancel backs out of the current sub-phase without spending the turn.
func (s *Session) Cancel() { s.apply(intent{kind: intentCancel}) }

type awaitingPhase struct{}

func (awaitingPhase) kind() PhaseKind { return PhaseAwaiting }
func (awaitingPhase) enter(s *Session) {
	s.selectedPlot = nil
}
func (awaitingPhase) exit(*Session) {}

func (awaitingPhase) handle(s *Session, in intent) phase {
	switch in.kind {
	case intentEnterPlacement:
		if s.inHand != nil {
			return placement
		}
	case intentStartMoving:
		if player, ok := s.registry.Get(s.player); ok && player.MovesRemaining > 0 {
			return moving
		}
	case intentEnterRotation:
		if s.grid.Contains(in.pos) && !s.grid.Immovable(in.pos) {
			return &rotatingPhase{pos: in.pos, prev: s.grid.At(in.pos).Orientation}
		}
	case intentAttack:
		if s.attack(in.target) {
			s.endPlayerTurn()
			return awaiting
		}
	case intentDemolish:
		if s.demolishWall(in.from, in.to) {
			s.endPlayerTurn()
			return awaiting
		}
	}
	return nil
}

type placementPhase struct{}

func (placementPhase) kind() PhaseKind { return PhasePlacement }
func (placementPhase) enter(*Session)  {}
func (placementPhase) exit(s *Session) {
	s.selectedPlot = nil
}

func (placementPhase) handle(s *Session, in intent) phase {
	switch in.kind {
	case intentSelectPlot:
		for _, p := range s.GetPlots() {
			if p != in.plot {
				continue
			}
			// A second click on the selected plot commits the push.
			if s.selectedPlot != nil && *s.selectedPlot == in.plot && s.inHand != nil {
				s.executePush(in.plot)
				s.endPlayerTurn()
				return awaiting
			}
			sel := in.plot
			s.selectedPlot = &sel
			break
		}
	case intentRotateHand:
		if s.inHand != nil {
			if in.clockwise {
				*s.inHand = s.inHand.RotateClockwise()
			} else {
				*s.inHand = s.inHand.RotateCounterClockwise()
			}
		}
	case intentConfirmPlacement:
		if s.selectedPlot != nil && s.inHand != nil {
			s.executePush(*s.selectedPlot)
			s.endPlayerTurn()
			return awaiting
		}
	case intentCancel:
		return awaiting
	}
	return nil
}

type movingPhase struct{}

func (movingPhase) kind() PhaseKind { return PhaseMoving }
func (movingPhase) enter(*Session)  {}
func (movingPhase) exit(*Session)   {}

func (movingPhase) handle(s *Session, in intent) phase {
	switch in.kind {
	case intentMoveTo:
		if s.movePlayerTo(in.dest) {
			s.endPlayerTurn()
			return awaiting
		}
	case intentCancel:
		return awaiting
	}
	return nil
}

// rotatingPhase remembers the original orientation so cancel is an exact
// rollback.
type rotatingPhase struct {
	pos  grid.Position
	prev int
}

func (*rotatingPhase) kind() PhaseKind { return PhaseRotating }
func (*rotatingPhase) enter(*Session)  {}
func (*rotatingPhase) exit(*Session)   {}

func (r *rotatingPhase) handle(s *Session, in intent) phase {
	switch in.kind {
	case intentRotateTile:
		t := s.grid.At(r.pos)
		if in.clockwise {
			t = t.RotateClockwise()
		} else {
			t = t.RotateCounterClockwise()
		}
		s.grid.Set(r.pos, t)
	case intentConfirmRotation:
		s.endPlayerTurn()
		return awaiting
	case intentCancel:
		t := s.grid.At(r.pos)
		t.Orientation = r.prev
		s.grid.Set(r.pos, t)
		return awaiting
	}
	return nil
}
