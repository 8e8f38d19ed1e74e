package tile

import "github.com/milk9111/dungeonshift/common"

// Type identifies the connectivity shape of a tile.
type Type uint8

const (
	DeadEnd Type = iota
	Straight
	Corner
	TJunction
	Cross
	typeCount
)

func (t Type) String() string {
	switch t {
	case DeadEnd:
		return "dead_end"
	case Straight:
		return "straight"
	case Corner:
		return "corner"
	case TJunction:
		return "t_junction"
	case Cross:
		return "cross"
	}
	return "unknown"
}

// Types lists every tile type once, in declaration order.
func Types() []Type {
	return []Type{DeadEnd, Straight, Corner, TJunction, Cross}
}

// Direction is a cardinal direction on the grid. North is toward row 0.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "unknown"
}

// Opposite returns the direction facing back at d.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the row/column step for moving one cell in direction d.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case East:
		return 0, 1
	case South:
		return 1, 0
	case West:
		return 0, -1
	}
	return 0, 0
}

// Directions lists the four cardinal directions in clockwise order.
func Directions() []Direction {
	return []Direction{North, East, South, West}
}

// EdgeMask is a bitmask of open sides, one bit per Direction.
type EdgeMask uint8

// Open reports whether the side facing d is open.
func (m EdgeMask) Open(d Direction) bool {
	return m&(1<<d) != 0
}

// Count returns the number of open sides.
func (m EdgeMask) Count() int {
	n := 0
	for _, d := range Directions() {
		if m.Open(d) {
			n++
		}
	}
	return n
}

func maskOf(dirs ...Direction) EdgeMask {
	var m EdgeMask
	for _, d := range dirs {
		m |= 1 << d
	}
	return m
}

// canonical edge patterns at orientation 0.
var canonical = [typeCount]EdgeMask{
	DeadEnd:   maskOf(North),
	Straight:  maskOf(North, South),
	Corner:    maskOf(North, East),
	TJunction: maskOf(East, South, West),
	Cross:     maskOf(North, East, South, West),
}

// Edges returns the open sides of a tile type rotated orientation steps
// clockwise. Orientation is taken mod 4.
func Edges(t Type, orientation int) EdgeMask {
	k := ((orientation % 4) + 4) % 4
	base := canonical[t]
	var m EdgeMask
	for _, d := range Directions() {
		if base.Open(d) {
			m |= 1 << ((d + Direction(k)) % 4)
		}
	}
	return m
}

// RotateClockwise advances an orientation one step clockwise.
func RotateClockwise(orientation int) int {
	return (orientation + 1) % 4
}

// RotateCounterClockwise is the inverse of RotateClockwise.
func RotateCounterClockwise(orientation int) int {
	return (orientation + 3) % 4
}

// MaxDecay is the highest decay level a tile can reach.
const MaxDecay = 4

// Tile is a single grid cell: a connectivity shape, a clockwise rotation,
// and a decay hazard level.
type Tile struct {
	Type        Type
	Orientation int
	Decay       int
}

// Edges returns the tile's open sides at its current orientation.
func (t Tile) Edges() EdgeMask {
	return Edges(t.Type, t.Orientation)
}

// Open reports whether the tile's side facing d is open.
func (t Tile) Open(d Direction) bool {
	return t.Edges().Open(d)
}

// RotateClockwise returns the tile rotated one step clockwise.
func (t Tile) RotateClockwise() Tile {
	t.Orientation = RotateClockwise(t.Orientation)
	return t
}

// RotateCounterClockwise returns the tile rotated one step counter-clockwise.
func (t Tile) RotateCounterClockwise() Tile {
	t.Orientation = RotateCounterClockwise(t.Orientation)
	return t
}

// AddDecay raises the tile's decay by n, clamped to [0, MaxDecay].
func (t *Tile) AddDecay(n int) {
	t.Decay = common.Clamp(t.Decay+n, 0, MaxDecay)
}
