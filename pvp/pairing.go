package pvp

import (
	"math"
	"time"
)

// powerWeight skews the pair score heavily toward power similarity; rating
// similarity only breaks near-ties between equally fair pairs.
const powerWeight = 200

type PairingConfig struct {
	BasePowerRange      float64
	PowerRangeExpansion float64
	RangeInterval       time.Duration
	BaseEloRange        int
	EloRangeExpansion   int
	Lookahead           int
	MaxRangeExpansions  int
}

type Pairer struct {
	cfg PairingConfig
}

func NewPairer(cfg PairingConfig) *Pairer {
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 10
	}
	if cfg.MaxRangeExpansions <= 0 {
		cfg.MaxRangeExpansions = 10
	}
	return &Pairer{cfg: cfg}
}

func (p *Pairer) expansions(waited time.Duration) int {
	if waited <= 0 || p.cfg.RangeInterval <= 0 {
		return 0
	}
	return int(waited / p.cfg.RangeInterval)
}

func (p *Pairer) allowedPowerRange(waited time.Duration) float64 {
	return p.cfg.BasePowerRange + float64(p.expansions(waited))*p.cfg.PowerRangeExpansion
}

func (p *Pairer) allowedEloRange(waited time.Duration) int {
	return p.cfg.BaseEloRange + p.expansions(waited)*p.cfg.EloRangeExpansion
}

// maxPowerRange is the widest window any queued entry could currently claim,
// used only to cut the inner scan short. Waiting past MaxRangeExpansions
// intervals still widens the real window; this is a scan bound, not a cap.
func (p *Pairer) maxPowerRange() float64 {
	return p.cfg.BasePowerRange + float64(p.cfg.MaxRangeExpansions)*p.cfg.PowerRangeExpansion
}

func powerDiffPct(a, b int) float64 {
	avg := float64(a+b) / 2
	if avg <= 0 {
		return 0
	}
	return math.Abs(float64(a)-float64(b)) / avg
}

// FindPair scans a power-sorted snapshot and returns the session UIDs of the
// fairest compatible pair, if any. The scan is greedy: each entry only looks
// at its next Lookahead higher-power neighbors, relying on the sort to keep
// incompatible pairs far apart.
func (p *Pairer) FindPair(entries []QueueEntry, now time.Time) (uid1, uid2 string, ok bool) {
	bestScore := math.MaxFloat64

	// The early-exit bound must never be tighter than what the longest
	// waiter is actually entitled to, or a stale entry could starve.
	scanCap := p.maxPowerRange()
	for i := range entries {
		if w := p.allowedPowerRange(now.Sub(entries[i].EnqueuedAt)); w > scanCap {
			scanCap = w
		}
	}

	for i := 0; i < len(entries)-1; i++ {
		a := &entries[i]
		limit := i + p.cfg.Lookahead
		if limit >= len(entries) {
			limit = len(entries) - 1
		}
		for j := i + 1; j <= limit; j++ {
			b := &entries[j]

			diffPct := powerDiffPct(a.Power, b.Power)
			if diffPct > scanCap {
				// Sorted by power: every later neighbor is even further out.
				break
			}

			waited := now.Sub(a.EnqueuedAt)
			if w := now.Sub(b.EnqueuedAt); w > waited {
				waited = w
			}
			if diffPct > p.allowedPowerRange(waited) {
				continue
			}
			eloDiff := a.Rating - b.Rating
			if eloDiff < 0 {
				eloDiff = -eloDiff
			}
			if eloDiff > p.allowedEloRange(waited) {
				continue
			}

			score := diffPct*powerWeight + float64(eloDiff)
			if score < bestScore {
				bestScore = score
				uid1, uid2 = a.SessionUID, b.SessionUID
				ok = true
			}
		}
	}
	return uid1, uid2, ok
}
