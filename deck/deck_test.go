package deck

import (
	"math/rand"
	"testing"

	"github.com/milk9111/dungeonshift/tile"
)

func TestDeckConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := New(59, nil, rng)
	if d.Len() != 59 {
		t.Fatalf("expected 59 tiles, got %d", d.Len())
	}

	for i := 0; i < 200; i++ {
		drawn := d.Draw()
		d.Discard(drawn)
		if d.Len() != 59 {
			t.Fatalf("expected constant count 59 after %d cycles, got %d", i+1, d.Len())
		}
	}
}

func TestDeckReshufflesDiscard(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	d := New(5, nil, rng)

	held := make([]tile.Tile, 0, 5)
	for i := 0; i < 5; i++ {
		held = append(held, d.Draw())
	}
	for _, h := range held {
		d.Discard(h)
	}

	// Draw pile is empty; the next draw must recycle the discard pile. The
	// drawn tile goes back in before the count check since Len only covers
	// the two piles.
	drawn := d.Draw()
	d.Discard(drawn)
	if d.Len() != 5 {
		t.Fatalf("expected 5 tiles after reshuffle, got %d", d.Len())
	}
}

func TestDrawEmptyDeckPanics(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	d := New(1, nil, rng)
	_ = d.Draw()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic drawing from empty deck")
		}
	}()
	_ = d.Draw()
}

func TestPeekDoesNotConsume(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	d := New(10, nil, rng)

	p := d.Peek()
	got := d.Draw()
	if p != got {
		t.Fatalf("expected peek %+v to match draw %+v", p, got)
	}
	if d.Len() != 9 {
		t.Fatalf("expected 9 tiles after one draw, got %d", d.Len())
	}
}

func TestCompositionFollowsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	d := New(100, Weights{tile.Cross: 1}, rng)
	for i := 0; i < 100; i++ {
		if got := d.Draw(); got.Type != tile.Cross {
			t.Fatalf("expected only cross tiles, got %s", got.Type)
		}
	}
}
