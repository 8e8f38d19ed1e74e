// Package object is the authoritative registry of everything standing on the
// grid: players, enemies, items, and the exit. It owns positions, movement
// budgets, push propagation, and tile-trigger interactions.
package object

import (
	"math"

	"github.com/milk9111/dungeonshift/combat"
	"github.com/milk9111/dungeonshift/grid"
)

// Kind classifies a map object.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindEnemy
	KindItem
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindItem:
		return "item"
	case KindExit:
		return "exit"
	}
	return "unknown"
}

// Handle identifies a registry slot plus a generation tag, so a destroyed
// object's handle can never be confused with the slot's next tenant.
type Handle uint64

const handleIndexBits = 32

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<handleIndexBits | uint64(index))
}

func (h Handle) index() uint32 {
	return uint32(h)
}

func (h Handle) generation() uint32 {
	return uint32(uint64(h) >> handleIndexBits)
}

// Valid reports whether the handle was ever issued by a registry.
func (h Handle) Valid() bool {
	return h != 0
}

// Object is one entity on the board. The registry exclusively owns Pos;
// pathfinding and AI only borrow read access.
type Object struct {
	Handle Handle
	Kind   Kind
	Name   string
	Pos    grid.Position

	// Movement budget. Speed may be fractional; the accumulator carries the
	// remainder between turns so a 0.5-speed unit moves every other turn.
	Speed          float64
	Accumulator    float64
	MovesRemaining int

	Stats  combat.Stats
	HP     int
	Flying bool

	// Enemy-only fields.
	AIKind         string
	Script         string
	Tier           int
	DropChance     float64
	ProtectedTile  *grid.Position
	SpecialCounter int

	// Tile triggers, fired by CheckInteractions. Nil means no trigger.
	OnEnter func(self, mover *Object)
	OnExit  func(self, mover *Object)
}

// Alive reports whether a stat-bearing object has hit points left.
func (o *Object) Alive() bool {
	return o.HP > 0
}

type slot struct {
	obj  *Object
	gen  uint32
	live bool
}

// Registry is a slot-map of objects. Iteration follows registration order.
type Registry struct {
	slots []slot
	free  []uint32
	order []Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	// Slot 0 is reserved so the zero Handle stays invalid.
	return &Registry{slots: make([]slot, 1)}
}

// Create allocates a fresh object of the given kind at pos.
func (r *Registry) Create(kind Kind, pos grid.Position) *Object {
	var index uint32
	if len(r.free) > 0 {
		index = r.free[len(r.free)-1]
		r.free = r.free[:len(r.free)-1]
	} else {
		r.slots = append(r.slots, slot{})
		index = uint32(len(r.slots) - 1)
	}

	s := &r.slots[index]
	s.gen++
	s.live = true
	s.obj = &Object{
		Handle: makeHandle(index, s.gen),
		Kind:   kind,
		Pos:    pos,
	}
	r.order = append(r.order, s.obj.Handle)
	return s.obj
}

// Get resolves a handle to its object, failing for stale generations.
func (r *Registry) Get(h Handle) (*Object, bool) {
	idx := h.index()
	if idx == 0 || int(idx) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[idx]
	if !s.live || s.gen != h.generation() {
		return nil, false
	}
	return s.obj, true
}

// Destroy removes an object from the registry.
func (r *Registry) Destroy(h Handle) bool {
	idx := h.index()
	if idx == 0 || int(idx) >= len(r.slots) {
		return false
	}
	s := &r.slots[idx]
	if !s.live || s.gen != h.generation() {
		return false
	}
	s.live = false
	s.obj = nil
	r.free = append(r.free, idx)

	for i, oh := range r.order {
		if oh == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns live objects in registration order.
func (r *Registry) All() []*Object {
	out := make([]*Object, 0, len(r.order))
	for _, h := range r.order {
		if o, ok := r.Get(h); ok {
			out = append(out, o)
		}
	}
	return out
}

// AtPosition returns every live object standing on p, in registration order.
func (r *Registry) AtPosition(p grid.Position) []*Object {
	var out []*Object
	for _, o := range r.All() {
		if o.Pos == p {
			out = append(out, o)
		}
	}
	return out
}

// ResetTurnMovement refills an object's movement budget for a new turn. The
// fractional remainder carries forward, so the accumulator always stays in
// [0, 1).
func (r *Registry) ResetTurnMovement(o *Object) {
	total := o.Accumulator + o.Speed
	o.MovesRemaining = int(math.Floor(total))
	o.Accumulator = total - float64(o.MovesRemaining)
}

// SpendMovement deducts n moves if the budget allows, reporting success.
func (r *Registry) SpendMovement(o *Object, n int) bool {
	if n < 0 || o.MovesRemaining < n {
		return false
	}
	o.MovesRemaining -= n
	return true
}

// HandlePush shifts every object in the plot's push line one step, in the
// same transaction as the grid's own push so tiles and objects never
// disagree about topology. Objects shifted past the boundary are destroyed.
// Returns the handles of destroyed objects.
func (r *Registry) HandlePush(g *grid.Grid, p grid.Plot) []Handle {
	line := map[grid.Position]bool{}
	for _, pos := range g.Line(p) {
		line[pos] = true
	}

	var destroyed []Handle
	for _, o := range r.All() {
		if !line[o.Pos] {
			continue
		}
		next := o.Pos.Add(p.Direction)
		if !g.Contains(next) {
			destroyed = append(destroyed, o.Handle)
			r.Destroy(o.Handle)
			continue
		}
		o.Pos = next
	}
	return destroyed
}

// CheckInteractions fires tile triggers after a move: objects the mover just
// left get OnExit, objects the mover now shares a cell with get OnEnter.
func (r *Registry) CheckInteractions(mover *Object, previous grid.Position) {
	if mover.Pos == previous {
		return
	}
	for _, o := range r.All() {
		if o == mover {
			continue
		}
		if o.Pos == previous && o.OnExit != nil {
			o.OnExit(o, mover)
		}
		if o.Pos == mover.Pos && o.OnEnter != nil {
			o.OnEnter(o, mover)
		}
	}
}
