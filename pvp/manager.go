package pvp

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Sparksx/forge-arena/config"
	"github.com/Sparksx/forge-arena/model"
	"go.uber.org/zap"
)

// RatingStore commits a signed rating change for one player of a finished
// match. Implementations must be idempotent per (matchID, playerID).
type RatingStore interface {
	ApplyDelta(matchID string, playerID uint64, delta int, outcome string) error
}

// MatchStore archives a finished match record. Optional; failures are
// logged and never affect the delivered outcome.
type MatchStore interface {
	Create(record *model.Match) error
}

// Notifier delivers a push message to one connected session.
type Notifier interface {
	Push(uid string, route string, payload interface{})
}

// Manager owns the matchmaking queue and the active-match table. The queue
// has its own lock; Manager's mutex only guards the match maps, and each
// Match serializes its own turns, so two matches resolve fully in parallel.
type Manager struct {
	cfg     *config.Config
	log     *zap.Logger
	stats   StatsProvider
	ratings RatingStore
	records MatchStore
	board   *Leaderboard
	notify  Notifier

	queue  *Queue
	pairer *Pairer
	elo    RatingEngine
	sink   *LogSink

	mu      sync.Mutex
	matches map[string]*Match
	byUID   map[string]*Match

	stop chan struct{}
	once sync.Once

	newRand func() *rand.Rand
}

func NewManager(cfg *config.Config, logger *zap.Logger, stats StatsProvider, ratings RatingStore, records MatchStore, board *Leaderboard, notify Notifier) *Manager {
	m := &Manager{
		cfg:     cfg,
		log:     logger,
		stats:   stats,
		ratings: ratings,
		records: records,
		board:   board,
		notify:  notify,
		queue:   NewQueue(),
		pairer: NewPairer(PairingConfig{
			BasePowerRange:      cfg.BasePowerRange,
			PowerRangeExpansion: cfg.PowerRangeExpansion,
			RangeInterval:       cfg.RangeInterval(),
			BaseEloRange:        cfg.BaseEloRange,
			EloRangeExpansion:   cfg.EloRangeExpansion,
			Lookahead:           cfg.PairLookahead,
			MaxRangeExpansions:  cfg.MaxRangeExpansions,
		}),
		elo:     RatingEngine{K: cfg.KFactor},
		sink:    NewLogSink(cfg.CombatLogTTL()),
		matches: make(map[string]*Match),
		byUID:   make(map[string]*Match),
		stop:    make(chan struct{}),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	go m.pairLoop()
	return m
}

// pairLoop re-runs pairing every range interval, so entries whose fairness
// windows have widened get matched even when the queue itself sees no
// traffic.
func (m *Manager) pairLoop() {
	ticker := time.NewTicker(m.cfg.RangeInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.TryPair()
		case <-m.stop:
			return
		}
	}
}

// Enqueue admits a session into the matchmaking pool and immediately runs a
// pairing pass. Returns the player's power score for display.
func (m *Manager) Enqueue(uid string, playerID uint64) (int, error) {
	m.mu.Lock()
	_, fighting := m.byUID[uid]
	m.mu.Unlock()
	if fighting {
		return 0, ErrAlreadyQueued
	}

	stats, err := m.stats.LoadStats(playerID)
	if err != nil {
		if errors.Is(err, ErrStatsUnavailable) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrStatsUnavailable, err)
	}

	if err := m.queue.Enqueue(&QueueEntry{
		SessionUID: uid,
		PlayerID:   playerID,
		Name:       stats.Name,
		Power:      stats.Power,
		Rating:     stats.Rating,
		EnqueuedAt: time.Now(),
		Stats:      stats,
	}); err != nil {
		return 0, err
	}

	m.log.Info("player queued",
		zap.Uint64("player_id", playerID),
		zap.Int("power", stats.Power),
		zap.Int("rating", stats.Rating),
		zap.Int("queue_len", m.queue.Len()))

	m.TryPair()
	return stats.Power, nil
}

// Dequeue removes a waiting session. A removal can pull two remaining
// entries within lookahead of each other, so a pairing pass follows.
func (m *Manager) Dequeue(uid string) {
	m.queue.Dequeue(uid)
	m.TryPair()
}

// TryPair runs pairing passes until no compatible pair remains. Safe to
// call on every queue mutation; TakePair arbitrates racing passes so the
// same entry can never end up in two matches.
func (m *Manager) TryPair() {
	for {
		snapshot := m.queue.Snapshot()
		if len(snapshot) < 2 {
			return
		}
		uid1, uid2, ok := m.pairer.FindPair(snapshot, time.Now())
		if !ok {
			return
		}
		e1, e2, ok := m.queue.TakePair(uid1, uid2)
		if !ok {
			continue
		}
		m.startMatch(e1, e2)
	}
}

func (m *Manager) startMatch(e1, e2 *QueueEntry) {
	now := time.Now()
	mt := &Match{
		ID:        fmt.Sprintf("match_%d_%d_%d", now.UnixMilli(), e1.PlayerID, e2.PlayerID),
		uid1:      e1.SessionUID,
		uid2:      e2.SessionUID,
		fighter1:  NewFighter(e1.PlayerID, e1.Stats),
		fighter2:  NewFighter(e2.PlayerID, e2.Stats),
		turn:      1,
		createdAt: now,
		rng:       m.newRand(),
	}

	m.mu.Lock()
	m.matches[mt.ID] = mt
	m.byUID[mt.uid1] = mt
	m.byUID[mt.uid2] = mt
	m.mu.Unlock()

	m.log.Info("match created",
		zap.String("match_id", mt.ID),
		zap.Uint64("player1", e1.PlayerID),
		zap.Uint64("player2", e2.PlayerID),
		zap.Int("power1", e1.Power),
		zap.Int("power2", e2.Power))

	m.notify.Push(mt.uid1, routeMatched, MatchedPayload{
		MatchID:  mt.ID,
		You:      summarize(&mt.fighter1),
		Opponent: summarize(&mt.fighter2),
	})
	m.notify.Push(mt.uid2, routeMatched, MatchedPayload{
		MatchID:  mt.ID,
		You:      summarize(&mt.fighter2),
		Opponent: summarize(&mt.fighter1),
	})

	m.startTurn(mt)
}

// ActiveMatches reports the size of the active-match table.
func (m *Manager) ActiveMatches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matches)
}

// QueueLen reports the number of waiting participants.
func (m *Manager) QueueLen() int {
	return m.queue.Len()
}

// CombatLog fetches a finished match's shareable log, if it has not expired.
func (m *Manager) CombatLog(matchID string) (CombatLogEntry, bool) {
	return m.sink.Get(matchID)
}

func (m *Manager) Leaderboard() ([]LeaderboardRow, error) {
	return m.board.Top()
}

func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
	m.sink.Close()
}
