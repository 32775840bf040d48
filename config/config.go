package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Sparksx/forge-arena/db"
)

const (
	PvpRoomName = "pvp"
)

type Config struct {
	Database     db.Config `json:"database"`
	FrontendType string    `json:"frontend_type"`
	WSAddr       string    `json:"ws_addr"`

	TurnTimeoutMs int `json:"turn_timeout_ms"`
	MaxTurns      int `json:"max_turns"`

	BasePowerRange      float64 `json:"base_power_range"`
	PowerRangeExpansion float64 `json:"power_range_expansion"`
	RangeIntervalMs     int     `json:"range_interval_ms"`
	BaseEloRange        int     `json:"base_elo_range"`
	EloRangeExpansion   int     `json:"elo_range_expansion"`
	PairLookahead       int     `json:"pair_lookahead"`
	MaxRangeExpansions  int     `json:"max_range_expansions"`

	KFactor float64 `json:"k_factor"`

	CombatLogTTLHours     int `json:"combat_log_ttl_hours"`
	LeaderboardTTLSeconds int `json:"leaderboard_ttl_seconds"`
	LeaderboardSize       int `json:"leaderboard_size"`
}

func Read(configPath string) *Config {
	b, err := os.ReadFile(configPath)
	if err != nil {
		panic(err)
	}
	var config Config
	if err := json.Unmarshal(b, &config); err != nil {
		panic(err)
	}
	config.applyDefaults()
	return &config
}

// Default returns a Config with every tunable at its stock value, used by
// tests and as the fallback for fields missing from the config file.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.FrontendType == "" {
		c.FrontendType = "arena"
	}
	if c.WSAddr == "" {
		c.WSAddr = ":3250"
	}
	if c.TurnTimeoutMs == 0 {
		c.TurnTimeoutMs = 15000
	}
	if c.MaxTurns == 0 {
		c.MaxTurns = 50
	}
	if c.BasePowerRange == 0 {
		c.BasePowerRange = 0.20
	}
	if c.PowerRangeExpansion == 0 {
		c.PowerRangeExpansion = 0.10
	}
	if c.RangeIntervalMs == 0 {
		c.RangeIntervalMs = 5000
	}
	if c.BaseEloRange == 0 {
		c.BaseEloRange = 100
	}
	if c.EloRangeExpansion == 0 {
		c.EloRangeExpansion = 50
	}
	if c.PairLookahead == 0 {
		c.PairLookahead = 10
	}
	if c.MaxRangeExpansions == 0 {
		c.MaxRangeExpansions = 10
	}
	if c.KFactor == 0 {
		c.KFactor = 32
	}
	if c.CombatLogTTLHours == 0 {
		c.CombatLogTTLHours = 24
	}
	if c.LeaderboardTTLSeconds == 0 {
		c.LeaderboardTTLSeconds = 60
	}
	if c.LeaderboardSize == 0 {
		c.LeaderboardSize = 10
	}
}

func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutMs) * time.Millisecond
}

func (c *Config) RangeInterval() time.Duration {
	return time.Duration(c.RangeIntervalMs) * time.Millisecond
}

func (c *Config) CombatLogTTL() time.Duration {
	return time.Duration(c.CombatLogTTLHours) * time.Hour
}

func (c *Config) LeaderboardTTL() time.Duration {
	return time.Duration(c.LeaderboardTTLSeconds) * time.Second
}
