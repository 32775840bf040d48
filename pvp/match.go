package pvp

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Sparksx/forge-arena/db"
	"github.com/Sparksx/forge-arena/model"
	"go.uber.org/zap"
)

// Match is one active 1v1 session. The mutex serializes action submission,
// timer fire, and resolution; the turn counter doubles as the guard that a
// stale timer can never resolve a turn twice.
type Match struct {
	ID string

	mu        sync.Mutex
	fighter1  Fighter
	fighter2  Fighter
	uid1      string
	uid2      string
	turn      int
	timer     *time.Timer
	turnLog   []TurnResult
	terminal  bool
	createdAt time.Time
	rng       *rand.Rand
}

func (mt *Match) fighterByUID(uid string) *Fighter {
	if uid == mt.uid1 {
		return &mt.fighter1
	}
	return &mt.fighter2
}

// startTurn clears pending actions, arms the deadline timer, and announces
// the turn to both participants.
func (m *Manager) startTurn(mt *Match) {
	mt.mu.Lock()
	if mt.terminal {
		mt.mu.Unlock()
		return
	}
	mt.fighter1.pendingAction = ""
	mt.fighter2.pendingAction = ""
	turn := mt.turn
	timeout := m.cfg.TurnTimeout()
	mt.timer = time.AfterFunc(timeout, func() {
		m.onTurnTimeout(mt, turn)
	})
	mt.mu.Unlock()

	payload := TurnPayload{Turn: turn, TimeLimitMs: timeout.Milliseconds()}
	m.notify.Push(mt.uid1, routeTurn, payload)
	m.notify.Push(mt.uid2, routeTurn, payload)
}

// onTurnTimeout fires when the deadline lapses. Missing actions default to
// attack so a stalling player cannot freeze the match. If the turn already
// resolved (early resolution raced the timer), this is a no-op.
func (m *Manager) onTurnTimeout(mt *Match, turn int) {
	mt.mu.Lock()
	if mt.terminal || mt.turn != turn {
		mt.mu.Unlock()
		return
	}
	if mt.fighter1.pendingAction == "" {
		mt.fighter1.pendingAction = ActionAttack
	}
	if mt.fighter2.pendingAction == "" {
		mt.fighter2.pendingAction = ActionAttack
	}
	m.resolveTurnLocked(mt)
}

// SubmitAction records one fighter's action for the current turn. The first
// submission waits for the opponent; the second triggers resolution
// immediately and cancels the deadline timer. Duplicate submissions within
// a turn are ignored.
func (m *Manager) SubmitAction(uid string, action Action) error {
	if !action.Valid() {
		return ErrInvalidAction
	}

	m.mu.Lock()
	mt := m.byUID[uid]
	m.mu.Unlock()
	if mt == nil {
		return ErrNoActiveMatch
	}

	mt.mu.Lock()
	if mt.terminal {
		mt.mu.Unlock()
		return ErrNoActiveMatch
	}
	f := mt.fighterByUID(uid)
	if f.pendingAction != "" {
		mt.mu.Unlock()
		return nil
	}
	f.pendingAction = action

	if mt.fighter1.pendingAction != "" && mt.fighter2.pendingAction != "" {
		if mt.timer != nil {
			// Stop may miss a timer that is already firing; the turn
			// counter check in onTurnTimeout discards that wake-up.
			mt.timer.Stop()
		}
		m.resolveTurnLocked(mt)
		return nil
	}
	mt.mu.Unlock()
	return nil
}

// resolveTurnLocked runs one simultaneous resolution. Called with mt.mu
// held; always releases it.
func (m *Manager) resolveTurnLocked(mt *Match) {
	f1, f2 := &mt.fighter1, &mt.fighter2
	a1, a2 := f1.pendingAction, f2.pendingAction

	out1 := Resolve(f1, a1, a2, mt.rng)
	out2 := Resolve(f2, a2, a1, mt.rng)

	f2.CurrentHP -= out1.Damage
	if f2.CurrentHP < 0 {
		f2.CurrentHP = 0
	}
	f1.CurrentHP -= out2.Damage
	if f1.CurrentHP < 0 {
		f1.CurrentHP = 0
	}

	// Life-steal scales with damage actually dealt, regen with max HP; both
	// land after damage within the same tick.
	heal1 := out1.Damage*f1.LifeSteal/100 + f1.MaxHP*f1.HealthRegen/100
	heal2 := out2.Damage*f2.LifeSteal/100 + f2.MaxHP*f2.HealthRegen/100
	f1.CurrentHP += heal1
	if f1.CurrentHP > f1.MaxHP {
		f1.CurrentHP = f1.MaxHP
	}
	f2.CurrentHP += heal2
	if f2.CurrentHP > f2.MaxHP {
		f2.CurrentHP = f2.MaxHP
	}

	tr := TurnResult{
		Turn: mt.turn,
		Fighter1: FighterOutcome{
			Action:    a1,
			Damage:    out1.Damage,
			IsCrit:    out1.Crit,
			Healed:    heal1,
			CurrentHP: f1.CurrentHP,
			MaxHP:     f1.MaxHP,
		},
		Fighter2: FighterOutcome{
			Action:    a2,
			Damage:    out2.Damage,
			IsCrit:    out2.Crit,
			Healed:    heal2,
			CurrentHP: f2.CurrentHP,
			MaxHP:     f2.MaxHP,
		},
	}
	mt.turnLog = append(mt.turnLog, tr)

	var winnerID uint64
	var reason EndReason
	terminal := true
	switch {
	case f1.CurrentHP <= 0 && f2.CurrentHP <= 0:
		reason = EndDraw
	case f2.CurrentHP <= 0:
		winnerID, reason = f1.PlayerID, EndKO
	case f1.CurrentHP <= 0:
		winnerID, reason = f2.PlayerID, EndKO
	case mt.turn >= m.cfg.MaxTurns:
		switch {
		case f1.hpPercent() > f2.hpPercent():
			winnerID, reason = f1.PlayerID, EndTimeout
		case f2.hpPercent() > f1.hpPercent():
			winnerID, reason = f2.PlayerID, EndTimeout
		default:
			reason = EndDraw
		}
	default:
		terminal = false
	}

	if !terminal {
		mt.turn++
		mt.mu.Unlock()
		m.notify.Push(mt.uid1, routeTurnResult, turnResultFor(tr, true))
		m.notify.Push(mt.uid2, routeTurnResult, turnResultFor(tr, false))
		m.startTurn(mt)
		return
	}

	mt.terminal = true
	if mt.timer != nil {
		mt.timer.Stop()
	}
	mt.mu.Unlock()

	m.notify.Push(mt.uid1, routeTurnResult, turnResultFor(tr, true))
	m.notify.Push(mt.uid2, routeTurnResult, turnResultFor(tr, false))
	m.finishMatch(mt, winnerID, reason)
}

// Disconnect removes the session from the queue and, if it was mid-match,
// forfeits in favor of the remaining player without a final resolution.
func (m *Manager) Disconnect(uid string) {
	m.Dequeue(uid)

	m.mu.Lock()
	mt := m.byUID[uid]
	m.mu.Unlock()
	if mt == nil {
		return
	}

	mt.mu.Lock()
	if mt.terminal {
		mt.mu.Unlock()
		return
	}
	mt.terminal = true
	if mt.timer != nil {
		mt.timer.Stop()
	}
	winnerID := mt.fighter1.PlayerID
	if uid == mt.uid1 {
		winnerID = mt.fighter2.PlayerID
	}
	mt.mu.Unlock()

	m.log.Info("match forfeited",
		zap.String("match_id", mt.ID),
		zap.String("disconnected_uid", uid))
	m.finishMatch(mt, winnerID, EndForfeit)
}

// finishMatch commits every end-of-match side effect and destroys the
// match. Only ever reached once: every caller flips terminal under the
// match lock first. Infrastructure failures are isolated from each other
// and from result delivery.
func (m *Manager) finishMatch(mt *Match, winnerID uint64, reason EndReason) {
	m.mu.Lock()
	delete(m.matches, mt.ID)
	delete(m.byUID, mt.uid1)
	delete(m.byUID, mt.uid2)
	m.mu.Unlock()

	f1, f2 := &mt.fighter1, &mt.fighter2

	var change1, change2 int
	if winnerID != 0 {
		winner, loser := f1, f2
		if winnerID == f2.PlayerID {
			winner, loser = f2, f1
		}
		delta := m.elo.ComputeDelta(winner.Rating, loser.Rating, winner.Power, loser.Power)
		m.applyRating(mt.ID, winner.PlayerID, delta.WinnerChange, db.OutcomeWin)
		m.applyRating(mt.ID, loser.PlayerID, delta.LoserChange, db.OutcomeLoss)
		if winner == f1 {
			change1, change2 = delta.WinnerChange, delta.LoserChange
		} else {
			change1, change2 = delta.LoserChange, delta.WinnerChange
		}
		m.board.Invalidate()
	}

	m.sink.Store(mt.ID, CombatLogEntry{
		MatchID:   mt.ID,
		Fighter1:  summarize(f1),
		Fighter2:  summarize(f2),
		WinnerID:  winnerID,
		Reason:    reason,
		Turns:     mt.turnLog,
		CreatedAt: time.Now(),
	})

	if m.records != nil {
		if err := m.records.Create(&model.Match{
			MatchID:   mt.ID,
			Player1ID: f1.PlayerID,
			Player2ID: f2.PlayerID,
			WinnerID:  winnerID,
			Reason:    string(reason),
			Turns:     len(mt.turnLog),
			StartTime: mt.createdAt,
			EndTime:   time.Now(),
		}); err != nil {
			m.log.Warn("archive match failed", zap.String("match_id", mt.ID), zap.Error(err))
		}
	}

	side1 := EndSide{PlayerID: f1.PlayerID, Name: f1.Name, RatingChange: change1}
	side2 := EndSide{PlayerID: f2.PlayerID, Name: f2.Name, RatingChange: change2}
	m.notify.Push(mt.uid1, routeMatchEnd, MatchEndPayload{
		MatchID: mt.ID, WinnerID: winnerID, Reason: reason, You: side1, Opponent: side2,
	})
	m.notify.Push(mt.uid2, routeMatchEnd, MatchEndPayload{
		MatchID: mt.ID, WinnerID: winnerID, Reason: reason, You: side2, Opponent: side1,
	})

	m.log.Info("match finished",
		zap.String("match_id", mt.ID),
		zap.String("reason", string(reason)),
		zap.Uint64("winner_id", winnerID),
		zap.Int("turns", len(mt.turnLog)))
}

func (m *Manager) applyRating(matchID string, playerID uint64, delta int, outcome string) {
	if err := m.ratings.ApplyDelta(matchID, playerID, delta, outcome); err != nil {
		// The result has already been decided and will still be delivered;
		// an unapplied delta is a logged inconsistency, not a match failure.
		m.log.Error("rating update failed",
			zap.String("match_id", matchID),
			zap.Uint64("player_id", playerID),
			zap.Int("delta", delta),
			zap.Error(err))
	}
}
