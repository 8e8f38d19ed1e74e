// Package deck owns the bag of tiles the grid draws from. Tiles cycle
// between a shuffled draw pile and a discard pile; the total count never
// changes for the life of the deck.
package deck

import (
	"math/rand"

	"github.com/milk9111/dungeonshift/tile"
)

// Weights maps a tile type to its relative share of the deck.
type Weights map[tile.Type]int

// DefaultWeights is the shipped deck composition. Dead ends are kept rare
// so freshly pushed tiles don't wall the player in too often.
func DefaultWeights() Weights {
	return Weights{
		tile.DeadEnd:   10,
		tile.Straight:  25,
		tile.Corner:    30,
		tile.TJunction: 25,
		tile.Cross:     10,
	}
}

// Deck is a draw pile plus a discard pile.
type Deck struct {
	draw    []tile.Tile
	discard []tile.Tile
	rng     *rand.Rand
}

// New builds a shuffled deck of exactly size tiles, apportioned by weights.
// Each tile gets a random orientation. rng must not be nil.
func New(size int, weights Weights, rng *rand.Rand) *Deck {
	if len(weights) == 0 {
		weights = DefaultWeights()
	}

	total := 0
	for _, w := range weights {
		total += w
	}

	tiles := make([]tile.Tile, 0, size)
	for _, typ := range tile.Types() {
		w, ok := weights[typ]
		if !ok || w <= 0 {
			continue
		}
		n := size * w / total
		for i := 0; i < n; i++ {
			tiles = append(tiles, tile.Tile{Type: typ, Orientation: rng.Intn(4)})
		}
	}

	// Integer division leaves a remainder; top up with weighted rolls.
	for len(tiles) < size {
		tiles = append(tiles, tile.Tile{Type: rollType(weights, total, rng), Orientation: rng.Intn(4)})
	}

	d := &Deck{draw: tiles, rng: rng}
	d.shuffle(d.draw)
	return d
}

func rollType(weights Weights, total int, rng *rand.Rand) tile.Type {
	r := rng.Intn(total)
	for _, typ := range tile.Types() {
		r -= weights[typ]
		if r < 0 {
			return typ
		}
	}
	return tile.Straight
}

func (d *Deck) shuffle(tiles []tile.Tile) {
	d.rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
}

// Draw removes and returns the top tile of the draw pile, reshuffling the
// discard pile into it first if it ran dry. Drawing from a fully empty deck
// is a programming error and panics.
func (d *Deck) Draw() tile.Tile {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			panic("deck: draw from empty deck")
		}
		d.draw = d.discard
		d.discard = nil
		d.shuffle(d.draw)
	}
	t := d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	return t
}

// Peek returns the next tile Draw would produce without consuming it.
func (d *Deck) Peek() tile.Tile {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			panic("deck: peek at empty deck")
		}
		d.draw = d.discard
		d.discard = nil
		d.shuffle(d.draw)
	}
	return d.draw[len(d.draw)-1]
}

// Discard puts a tile on the discard pile.
func (d *Deck) Discard(t tile.Tile) {
	d.discard = append(d.discard, t)
}

// Len returns the total tile count across both piles.
func (d *Deck) Len() int {
	return len(d.draw) + len(d.discard)
}
