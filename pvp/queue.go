package pvp

import (
	"sort"
	"sync"
	"time"
)

// QueueEntry is one waiting participant. The queue owns it exclusively;
// pairing removes entries rather than copying them out.
type QueueEntry struct {
	SessionUID string
	PlayerID   uint64
	Name       string
	Power      int
	Rating     int
	EnqueuedAt time.Time
	Stats      FighterStats
}

// Queue is the shared matchmaking pool. All mutation happens under one
// mutex; snapshots are copies and safe to scan without holding it.
type Queue struct {
	mu       sync.Mutex
	sessions map[string]*QueueEntry
	players  map[uint64]string
}

func NewQueue() *Queue {
	return &Queue{
		sessions: make(map[string]*QueueEntry),
		players:  make(map[uint64]string),
	}
}

// Enqueue admits an entry, rejecting a session or player that is already
// waiting.
func (q *Queue) Enqueue(e *QueueEntry) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.sessions[e.SessionUID]; ok {
		return ErrAlreadyQueued
	}
	if _, ok := q.players[e.PlayerID]; ok {
		return ErrAlreadyQueued
	}
	q.sessions[e.SessionUID] = e
	q.players[e.PlayerID] = e.SessionUID
	return nil
}

// Dequeue removes a session if present. Removing an absent session is a
// no-op so cancel and disconnect can share it.
func (q *Queue) Dequeue(sessionUID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e, ok := q.sessions[sessionUID]; ok {
		delete(q.sessions, sessionUID)
		delete(q.players, e.PlayerID)
	}
}

// TakePair atomically removes both sessions, or neither. Pairing passes
// that raced on the same snapshot lose here and rescan.
func (q *Queue) TakePair(uid1, uid2 string) (*QueueEntry, *QueueEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e1, ok1 := q.sessions[uid1]
	e2, ok2 := q.sessions[uid2]
	if !ok1 || !ok2 {
		return nil, nil, false
	}
	delete(q.sessions, uid1)
	delete(q.players, e1.PlayerID)
	delete(q.sessions, uid2)
	delete(q.players, e2.PlayerID)
	return e1, e2, true
}

// Snapshot returns the waiting entries ordered ascending by power.
func (q *Queue) Snapshot() []QueueEntry {
	q.mu.Lock()
	entries := make([]QueueEntry, 0, len(q.sessions))
	for _, e := range q.sessions {
		entries = append(entries, *e)
	}
	q.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Power != entries[j].Power {
			return entries[i].Power < entries[j].Power
		}
		return entries[i].EnqueuedAt.Before(entries[j].EnqueuedAt)
	})
	return entries
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.sessions)
}
