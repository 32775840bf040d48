package pvp

import "math/rand"

type Action string

const (
	ActionAttack  Action = "attack"
	ActionDefend  Action = "defend"
	ActionSpecial Action = "special"
)

func (a Action) Valid() bool {
	switch a {
	case ActionAttack, ActionDefend, ActionSpecial:
		return true
	}
	return false
}

// Fighter is one side of a match. Fighters are embedded by value in Match
// and never aliased outside it; pendingAction is guarded by the match lock.
type Fighter struct {
	PlayerID       uint64
	Name           string
	Avatar         string
	MaxHP          int
	CurrentHP      int
	Damage         int
	CritChance     int
	CritMultiplier int
	LifeSteal      int
	HealthRegen    int
	Rating         int
	Power          int

	pendingAction Action
}

func NewFighter(playerID uint64, stats FighterStats) Fighter {
	return Fighter{
		PlayerID:       playerID,
		Name:           stats.Name,
		Avatar:         stats.Avatar,
		MaxHP:          stats.MaxHP,
		CurrentHP:      stats.MaxHP,
		Damage:         stats.Damage,
		CritChance:     stats.CritChance,
		CritMultiplier: stats.CritMultiplier,
		LifeSteal:      stats.LifeSteal,
		HealthRegen:    stats.HealthRegen,
		Rating:         stats.Rating,
		Power:          stats.Power,
	}
}

func (f *Fighter) hpPercent() float64 {
	if f.MaxHP <= 0 {
		return 0
	}
	return float64(f.CurrentHP) / float64(f.MaxHP)
}

// Outcome is the damage one fighter deals in a single turn.
type Outcome struct {
	Damage int
	Crit   bool
}

const (
	specialMultiplier   = 1.8
	defendMitigation    = 0.4
	specialPierceFactor = 0.5
	varianceFloor       = 0.9
	varianceSpread      = 0.2
)

// Resolve computes the damage attacker deals given both submitted actions.
// It is a pure function of its inputs and the supplied random source, so
// tests can pin the crit and variance rolls.
//
// Defending deals nothing. A plain attack is cut to 40% by a defending
// opponent; a special hits 1.8x base damage and keeps 50% against a defender.
func Resolve(attacker *Fighter, attackerAction, defenderAction Action, rng *rand.Rand) Outcome {
	var base int
	var defendFactor float64

	switch attackerAction {
	case ActionAttack:
		base = attacker.Damage
		defendFactor = defendMitigation
	case ActionSpecial:
		base = int(float64(attacker.Damage) * specialMultiplier)
		defendFactor = specialPierceFactor
	default:
		return Outcome{}
	}

	damage := base
	crit := false
	if attacker.CritChance > 0 && rng.Float64()*100 < float64(attacker.CritChance) {
		damage = int(float64(damage) * (1 + float64(attacker.CritMultiplier)/100))
		crit = true
	}

	variance := varianceFloor + rng.Float64()*varianceSpread
	damage = int(float64(damage) * variance)
	if damage < 1 {
		damage = 1
	}
	if defenderAction == ActionDefend {
		damage = int(float64(damage) * defendFactor)
	}
	return Outcome{Damage: damage, Crit: crit}
}
