package pvp

import (
	"sync"
	"time"

	"github.com/Sparksx/forge-arena/model"
)

type LeaderboardSource interface {
	TopByRating(n int) ([]model.Player, error)
}

// Leaderboard is a read-through cache over the top-N rating query. Entries
// live for the configured TTL and the cache is invalidated outright whenever
// any match commits a rating change.
type Leaderboard struct {
	source LeaderboardSource
	stats  StatsProvider
	size   int
	ttl    time.Duration

	mu        sync.Mutex
	rows      []LeaderboardRow
	fetchedAt time.Time

	now func() time.Time
}

func NewLeaderboard(source LeaderboardSource, stats StatsProvider, size int, ttl time.Duration) *Leaderboard {
	return &Leaderboard{
		source: source,
		stats:  stats,
		size:   size,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (l *Leaderboard) Top() ([]LeaderboardRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rows != nil && l.now().Sub(l.fetchedAt) < l.ttl {
		return l.rows, nil
	}

	players, err := l.source.TopByRating(l.size)
	if err != nil {
		return nil, err
	}
	rows := make([]LeaderboardRow, 0, len(players))
	for _, p := range players {
		row := LeaderboardRow{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Rating:   p.Rating,
			Wins:     p.Wins,
			Losses:   p.Losses,
		}
		// Power is derived from equipment, not stored on the profile row.
		if stats, err := l.stats.LoadStats(p.PlayerID); err == nil {
			row.Power = stats.Power
		}
		rows = append(rows, row)
	}
	l.rows = rows
	l.fetchedAt = l.now()
	return rows, nil
}

func (l *Leaderboard) Invalidate() {
	l.mu.Lock()
	l.rows = nil
	l.mu.Unlock()
}
