package model

import (
	"time"

	"gorm.io/gorm"
)

type Player struct {
	PlayerID  uint64 `gorm:"primaryKey" json:"player_id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Rating    int    `gorm:"default:1000" json:"rating"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Equipment is one equipped item. Stat values are derived from level and
// tier on read; bonus columns hold percentages rolled at forge time.
type Equipment struct {
	gorm.Model
	PlayerID uint64 `gorm:"index" json:"player_id"`
	Slot     string `json:"slot"`
	Level    int    `json:"level"`
	Tier     int    `json:"tier"`

	AttackSpeed    int `json:"attack_speed"`
	CritChance     int `json:"crit_chance"`
	CritMultiplier int `json:"crit_multiplier"`
	HealthMulti    int `json:"health_multi"`
	DamageMulti    int `json:"damage_multi"`
	HealthRegen    int `json:"health_regen"`
	LifeSteal      int `json:"life_steal"`
}

type Match struct {
	gorm.Model
	MatchID   string    `gorm:"uniqueIndex" json:"match_id"`
	Player1ID uint64    `json:"player1_id"`
	Player2ID uint64    `json:"player2_id"`
	WinnerID  uint64    `json:"winner_id"` // 0 on a draw
	Reason    string    `json:"reason"`
	Turns     int       `json:"turns"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// RatingEvent records one applied rating delta. The unique index over
// (match_id, player_id) is what makes rating application idempotent.
type RatingEvent struct {
	gorm.Model
	MatchID  string `gorm:"uniqueIndex:idx_rating_match_player" json:"match_id"`
	PlayerID uint64 `gorm:"uniqueIndex:idx_rating_match_player" json:"player_id"`
	Delta    int    `json:"delta"`
	Outcome  string `json:"outcome"`
}
