package tile

import "testing"

func TestRotationInverse(t *testing.T) {
	for o := 0; o < 4; o++ {
		if got := RotateCounterClockwise(RotateClockwise(o)); got != o {
			t.Fatalf("expected ccw(cw(%d)) == %d, got %d", o, o, got)
		}
		if got := RotateClockwise(RotateCounterClockwise(o)); got != o {
			t.Fatalf("expected cw(ccw(%d)) == %d, got %d", o, o, got)
		}
	}
}

func TestEdges(t *testing.T) {
	cases := []struct {
		name        string
		typ         Type
		orientation int
		open        []Direction
		closed      []Direction
	}{
		{"dead_end_north", DeadEnd, 0, []Direction{North}, []Direction{East, South, West}},
		{"dead_end_rotated_east", DeadEnd, 1, []Direction{East}, []Direction{North, South, West}},
		{"straight_vertical", Straight, 0, []Direction{North, South}, []Direction{East, West}},
		{"straight_horizontal", Straight, 1, []Direction{East, West}, []Direction{North, South}},
		{"straight_two_turns_is_vertical", Straight, 2, []Direction{North, South}, []Direction{East, West}},
		{"corner_base", Corner, 0, []Direction{North, East}, []Direction{South, West}},
		{"corner_rotated", Corner, 3, []Direction{West, North}, []Direction{East, South}},
		{"t_junction_closed_north", TJunction, 0, []Direction{East, South, West}, []Direction{North}},
		{"t_junction_closed_east", TJunction, 1, []Direction{South, West, North}, []Direction{East}},
		{"cross_all_open", Cross, 2, []Direction{North, East, South, West}, nil},
		{"negative_orientation_wraps", Corner, -3, []Direction{East, South}, []Direction{North, West}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := Edges(c.typ, c.orientation)
			for _, d := range c.open {
				if !m.Open(d) {
					t.Fatalf("expected %s open at %s orientation %d", c.typ, d, c.orientation)
				}
			}
			for _, d := range c.closed {
				if m.Open(d) {
					t.Fatalf("expected %s closed at %s orientation %d", c.typ, d, c.orientation)
				}
			}
		})
	}
}

func TestEdgeCountPreservedByRotation(t *testing.T) {
	for _, typ := range Types() {
		want := Edges(typ, 0).Count()
		for o := 1; o < 4; o++ {
			if got := Edges(typ, o).Count(); got != want {
				t.Fatalf("%s: expected %d open sides at orientation %d, got %d", typ, want, o, got)
			}
		}
	}
}

func TestOppositeDirection(t *testing.T) {
	pairs := map[Direction]Direction{North: South, East: West, South: North, West: East}
	for d, want := range pairs {
		if got := d.Opposite(); got != want {
			t.Fatalf("expected opposite of %s to be %s, got %s", d, want, got)
		}
	}
}

func TestAddDecayClamps(t *testing.T) {
	tl := Tile{Type: Cross}
	tl.AddDecay(100)
	if tl.Decay != MaxDecay {
		t.Fatalf("expected decay clamped to %d, got %d", MaxDecay, tl.Decay)
	}
	tl.AddDecay(-100)
	if tl.Decay != 0 {
		t.Fatalf("expected decay clamped to 0, got %d", tl.Decay)
	}
}
