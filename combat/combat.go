// Package combat is the stateless to-hit/damage resolver. Callers supply the
// roll source so outcomes stay reproducible under test.
package combat

// Combat tuning.
const (
	BaseHit        = 10
	HitModifier    = 2
	ToHitThreshold = 75
	CritThreshold  = 100
	CritMultiplier = 2
)

// Stats are the combat-relevant attributes of an entity.
type Stats struct {
	HP  int
	Atk int
	Def int
	Agi int
}

// RollFunc produces a uniform roll in [0, 100).
type RollFunc func() float64

// HitResult is the outcome of a single to-hit check.
type HitResult struct {
	Hit      bool
	Critical bool
}

// ToHit checks whether an attack lands. Lower rolls are better; the agility
// gap shifts the roll before the threshold check. The threshold is inclusive.
func ToHit(attackerAgi, defenderAgi int, roll RollFunc) HitResult {
	r := float64(BaseHit) + float64(attackerAgi-defenderAgi)*HitModifier + roll()
	return HitResult{
		Hit:      r <= ToHitThreshold,
		Critical: r >= CritThreshold,
	}
}

// Damage computes the damage of a landed hit. A hit always deals at least 1.
func Damage(attackerAtk, defenderDef int, critical bool) int {
	dmg := attackerAtk - defenderDef
	if dmg < 1 {
		dmg = 1
	}
	if critical {
		dmg *= CritMultiplier
	}
	return dmg
}

// Fighter is a mutable combat participant.
type Fighter struct {
	Stats Stats
	HP    int
}

// Alive reports whether the fighter has hit points left.
func (f *Fighter) Alive() bool {
	return f.HP > 0
}

// StrikeResult records one strike. A miss deals zero damage but still
// consumes the action.
type StrikeResult struct {
	Hit      bool
	Critical bool
	Damage   int
}

// Result is a full combat exchange.
type Result struct {
	Attacker    StrikeResult
	Retaliation *StrikeResult
}

// Strike runs a single one-way attack, applying damage to the defender on a
// hit. Ranged attacks use this directly since there is no retaliation at
// range.
func Strike(attacker, defender *Fighter, roll RollFunc) StrikeResult {
	hit := ToHit(attacker.Stats.Agi, defender.Stats.Agi, roll)
	if !hit.Hit {
		return StrikeResult{}
	}
	dmg := Damage(attacker.Stats.Atk, defender.Stats.Def, hit.Critical)
	defender.HP -= dmg
	return StrikeResult{Hit: true, Critical: hit.Critical, Damage: dmg}
}

// Resolve runs a full exchange: the attacker strikes first and the defender
// retaliates only if still alive afterward.
func Resolve(attacker, defender *Fighter, roll RollFunc) Result {
	res := Result{Attacker: Strike(attacker, defender, roll)}
	if defender.Alive() {
		ret := Strike(defender, attacker, roll)
		res.Retaliation = &ret
	}
	return res
}
