package combat

import "testing"

func fixedRoll(v float64) RollFunc {
	return func() float64 { return v }
}

func TestToHitBoundary(t *testing.T) {
	// Equal agility and a zero roll leaves exactly BaseHit; the threshold is
	// inclusive, so this must land.
	res := ToHit(5, 5, fixedRoll(0))
	if got, want := res.Hit, BaseHit <= ToHitThreshold; got != want {
		t.Fatalf("expected hit=%v at roll BaseHit, got %v", want, got)
	}
	if res.Critical {
		t.Fatalf("expected no crit at minimal roll")
	}
}

func TestToHit(t *testing.T) {
	cases := []struct {
		name     string
		attacker int
		defender int
		roll     float64
		hit      bool
		critical bool
	}{
		{"exact_threshold_hits", 0, 0, float64(ToHitThreshold - BaseHit), true, false},
		{"just_over_threshold_misses", 0, 0, float64(ToHitThreshold-BaseHit) + 0.5, false, false},
		{"agility_gap_shifts_roll", 0, 10, float64(ToHitThreshold - BaseHit), true, false},
		{"crit_at_threshold", 20, 0, float64(CritThreshold - BaseHit - 40), false, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := ToHit(c.attacker, c.defender, fixedRoll(c.roll))
			if res.Hit != c.hit || res.Critical != c.critical {
				t.Fatalf("expected hit=%v critical=%v, got hit=%v critical=%v",
					c.hit, c.critical, res.Hit, res.Critical)
			}
		})
	}
}

func TestDamage(t *testing.T) {
	cases := []struct {
		name     string
		atk, def int
		critical bool
		want     int
	}{
		{"plain", 10, 4, false, 6},
		{"floor_at_one", 3, 9, false, 1},
		{"critical_doubles", 10, 4, true, 12},
		{"critical_floor", 1, 50, true, CritMultiplier},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Damage(c.atk, c.def, c.critical); got != c.want {
				t.Fatalf("expected %d damage, got %d", c.want, got)
			}
		})
	}
}

func TestResolveRetaliation(t *testing.T) {
	attacker := &Fighter{Stats: Stats{HP: 10, Atk: 5, Def: 0, Agi: 0}, HP: 10}
	defender := &Fighter{Stats: Stats{HP: 10, Atk: 3, Def: 0, Agi: 0}, HP: 10}

	res := Resolve(attacker, defender, fixedRoll(0))
	if !res.Attacker.Hit {
		t.Fatalf("expected attacker to land with minimal roll")
	}
	if defender.HP != 5 {
		t.Fatalf("expected defender at 5 hp, got %d", defender.HP)
	}
	if res.Retaliation == nil || !res.Retaliation.Hit {
		t.Fatalf("expected surviving defender to retaliate")
	}
	if attacker.HP != 7 {
		t.Fatalf("expected attacker at 7 hp after retaliation, got %d", attacker.HP)
	}
}

func TestResolveNoRetaliationWhenDead(t *testing.T) {
	attacker := &Fighter{Stats: Stats{HP: 10, Atk: 50, Def: 0, Agi: 0}, HP: 10}
	defender := &Fighter{Stats: Stats{HP: 3, Atk: 3, Def: 0, Agi: 0}, HP: 3}

	res := Resolve(attacker, defender, fixedRoll(0))
	if defender.Alive() {
		t.Fatalf("expected defender dead, hp %d", defender.HP)
	}
	if res.Retaliation != nil {
		t.Fatalf("expected no retaliation from dead defender")
	}
	if attacker.HP != 10 {
		t.Fatalf("expected attacker untouched, got %d", attacker.HP)
	}
}

func TestMissConsumesActionWithoutDamage(t *testing.T) {
	attacker := &Fighter{Stats: Stats{HP: 10, Atk: 5, Agi: 0}, HP: 10}
	defender := &Fighter{Stats: Stats{HP: 10, Atk: 5, Agi: 0}, HP: 10}

	// Max roll misses for both sides.
	res := Resolve(attacker, defender, fixedRoll(99.9))
	if res.Attacker.Hit || res.Attacker.Damage != 0 {
		t.Fatalf("expected clean miss, got %+v", res.Attacker)
	}
	if defender.HP != 10 || attacker.HP != 10 {
		t.Fatalf("expected no damage on miss")
	}
}
