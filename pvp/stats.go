package pvp

import (
	"errors"
	"fmt"
	"math"

	"github.com/Sparksx/forge-arena/db"
	"github.com/Sparksx/forge-arena/model"
	"gorm.io/gorm"
)

// FighterStats is everything the arena needs to know about a player at the
// moment they queue: effective combat numbers plus the matchmaking inputs.
type FighterStats struct {
	Name           string `json:"name"`
	Avatar         string `json:"avatar"`
	MaxHP          int    `json:"max_hp"`
	Damage         int    `json:"damage"`
	CritChance     int    `json:"crit_chance"`
	CritMultiplier int    `json:"crit_multiplier"`
	LifeSteal      int    `json:"life_steal"`
	HealthRegen    int    `json:"health_regen"`
	AttackSpeed    int    `json:"attack_speed"`
	Rating         int    `json:"rating"`
	Power          int    `json:"power"`
}

type StatsProvider interface {
	LoadStats(playerID uint64) (FighterStats, error)
}

const (
	baseHealth     = 100
	baseDamage     = 10
	healthPerLevel = 10
	damagePerLevel = 2
	growthExponent = 1.2
	tierLevelSpan  = 100
)

var healthSlots = map[string]bool{
	"hat":   true,
	"armor": true,
	"belt":  true,
	"boots": true,
}

type bonusTotals struct {
	AttackSpeed    int
	CritChance     int
	CritMultiplier int
	HealthMulti    int
	DamageMulti    int
	HealthRegen    int
	LifeSteal      int
}

type dbStats struct {
	client *db.Client
}

// NewStatsProvider returns the production stats adapter, which derives all
// combat math server-side from the persisted equipment rows. Clients never
// get to report their own numbers.
func NewStatsProvider(client *db.Client) StatsProvider {
	return &dbStats{client: client}
}

func (s *dbStats) LoadStats(playerID uint64) (FighterStats, error) {
	p, err := s.client.Player.Get(playerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FighterStats{}, fmt.Errorf("%w: unknown player %d", ErrStatsUnavailable, playerID)
		}
		return FighterStats{}, fmt.Errorf("%w: %v", ErrStatsUnavailable, err)
	}
	items, err := s.client.Equipment.ListByPlayer(playerID)
	if err != nil {
		return FighterStats{}, fmt.Errorf("%w: %v", ErrStatsUnavailable, err)
	}

	stats := computeStats(items)
	stats.Name = p.Name
	stats.Avatar = p.Avatar
	stats.Rating = p.Rating
	return stats, nil
}

func itemStats(level, tier int, health bool) int {
	if level < 1 {
		level = 1
	}
	if tier < 1 {
		tier = 1
	}
	effectiveLevel := float64((tier-1)*tierLevelSpan + level)
	perLevel := damagePerLevel
	if health {
		perLevel = healthPerLevel
	}
	return int(float64(perLevel) * math.Pow(effectiveLevel, growthExponent))
}

func computeStats(items []model.Equipment) FighterStats {
	totalHealth, totalDamage := 0, 0
	var b bonusTotals

	for _, item := range items {
		health := healthSlots[item.Slot]
		v := itemStats(item.Level, item.Tier, health)
		if health {
			totalHealth += v
		} else {
			totalDamage += v
		}
		b.AttackSpeed += item.AttackSpeed
		b.CritChance += item.CritChance
		b.CritMultiplier += item.CritMultiplier
		b.HealthMulti += item.HealthMulti
		b.DamageMulti += item.DamageMulti
		b.HealthRegen += item.HealthRegen
		b.LifeSteal += item.LifeSteal
	}

	return FighterStats{
		MaxHP:          baseHealth + int(float64(totalHealth)*(1+float64(b.HealthMulti)/100)),
		Damage:         baseDamage + int(float64(totalDamage)*(1+float64(b.DamageMulti)/100)),
		CritChance:     b.CritChance,
		CritMultiplier: b.CritMultiplier,
		LifeSteal:      b.LifeSteal,
		HealthRegen:    b.HealthRegen,
		AttackSpeed:    b.AttackSpeed,
		Power:          powerScore(totalHealth, totalDamage, b),
	}
}

// powerScore folds raw stats and bonus multipliers into the single scalar
// matchmaking compares. Survivability bonuses scale the health term, offense
// bonuses the damage term.
func powerScore(totalHealth, totalDamage int, b bonusTotals) int {
	effectiveHealth := float64(totalHealth) *
		(1 + float64(b.HealthMulti)/100) *
		(1 + float64(b.HealthRegen+b.LifeSteal)/100)
	effectiveDamage := float64(totalDamage) *
		(1 + float64(b.DamageMulti)/100) *
		(1 + float64(b.AttackSpeed)/100) *
		(1 + float64(b.CritChance)/100*float64(b.CritMultiplier)/100)
	return int(math.Round(effectiveHealth + effectiveDamage))
}
