package pvp

import (
	"sync"
	"time"
)

// CombatLogEntry is the shareable record of a finished match: both fighters'
// identities and base stats, the outcome, and the full turn history. Written
// once at match end, never mutated.
type CombatLogEntry struct {
	MatchID   string         `json:"match_id"`
	Fighter1  FighterSummary `json:"fighter1"`
	Fighter2  FighterSummary `json:"fighter2"`
	WinnerID  uint64         `json:"winner_id"`
	Reason    EndReason      `json:"reason"`
	Turns     []TurnResult   `json:"turns"`
	CreatedAt time.Time      `json:"created_at"`
}

const sinkSweepInterval = 10 * time.Minute

type logRecord struct {
	entry     CombatLogEntry
	expiresAt time.Time
}

// LogSink keeps finished-match logs for a bounded time so players can fetch
// and share them. Expired entries are dropped by a background sweep and
// double-checked on read.
type LogSink struct {
	mu      sync.RWMutex
	ttl     time.Duration
	records map[string]logRecord
	stop    chan struct{}
	once    sync.Once

	now func() time.Time
}

func NewLogSink(ttl time.Duration) *LogSink {
	s := &LogSink{
		ttl:     ttl,
		records: make(map[string]logRecord),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	go s.sweep()
	return s
}

func (s *LogSink) Store(matchID string, entry CombatLogEntry) {
	s.mu.Lock()
	s.records[matchID] = logRecord{entry: entry, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

func (s *LogSink) Get(matchID string) (CombatLogEntry, bool) {
	s.mu.RLock()
	rec, ok := s.records[matchID]
	s.mu.RUnlock()
	if !ok || s.now().After(rec.expiresAt) {
		return CombatLogEntry{}, false
	}
	return rec.entry, true
}

func (s *LogSink) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *LogSink) sweep() {
	ticker := time.NewTicker(sinkSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := s.now()
			s.mu.Lock()
			for id, rec := range s.records {
				if now.After(rec.expiresAt) {
					delete(s.records, id)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}
