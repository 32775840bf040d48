package pvp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPairer() *Pairer {
	return NewPairer(PairingConfig{
		BasePowerRange:      0.20,
		PowerRangeExpansion: 0.10,
		RangeInterval:       5 * time.Second,
		BaseEloRange:        100,
		EloRangeExpansion:   50,
		Lookahead:           10,
		MaxRangeExpansions:  10,
	})
}

func waitingEntry(uid string, playerID uint64, power, rating int, waited time.Duration) QueueEntry {
	return QueueEntry{
		SessionUID: uid,
		PlayerID:   playerID,
		Power:      power,
		Rating:     rating,
		EnqueuedAt: time.Now().Add(-waited),
	}
}

func TestFindPairWindowWidensWithWait(t *testing.T) {
	p := testPairer()
	now := time.Now()

	// powerDiffPct = 400/300 ≈ 1.33, far outside the 0.20 base window.
	fresh := []QueueEntry{
		waitingEntry("s1", 1, 100, 1000, 0),
		waitingEntry("s2", 2, 500, 1000, 0),
	}
	_, _, ok := p.FindPair(fresh, now)
	assert.False(t, ok)

	// After 12 expansion intervals the window reaches 1.40 and admits them.
	// 65s backdate: now was captured first, so the measured wait sits just
	// past 12 full intervals rather than on the 60s boundary.
	stale := []QueueEntry{
		waitingEntry("s1", 1, 100, 1000, 65*time.Second),
		waitingEntry("s2", 2, 500, 1000, 0),
	}
	uid1, uid2, ok := p.FindPair(stale, now)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"s1", "s2"}, []string{uid1, uid2})
}

func TestFindPairRespectsEloWindow(t *testing.T) {
	p := testPairer()
	now := time.Now()

	entries := []QueueEntry{
		waitingEntry("s1", 1, 100, 1000, 0),
		waitingEntry("s2", 2, 100, 1500, 0),
	}
	_, _, ok := p.FindPair(entries, now)
	assert.False(t, ok)

	// 9 expansions: 100 + 9*50 = 550 ≥ 500.
	entries[0] = waitingEntry("s1", 1, 100, 1000, 45*time.Second)
	_, _, ok = p.FindPair(entries, now)
	assert.True(t, ok)
}

func TestFindPairPrefersClosestPower(t *testing.T) {
	p := testPairer()
	now := time.Now()

	entries := []QueueEntry{
		waitingEntry("s1", 1, 100, 1000, 0),
		waitingEntry("s2", 2, 105, 1000, 0),
		waitingEntry("s3", 3, 118, 1000, 0),
	}
	uid1, uid2, ok := p.FindPair(entries, now)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"s1", "s2"}, []string{uid1, uid2})
}

func TestFindPairRatingBreaksPowerTies(t *testing.T) {
	p := testPairer()
	now := time.Now()

	entries := []QueueEntry{
		waitingEntry("s1", 1, 100, 1000, 0),
		waitingEntry("s2", 2, 100, 1090, 0),
		waitingEntry("s3", 3, 100, 1010, 0),
	}
	uid1, uid2, ok := p.FindPair(entries, now)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"s1", "s3"}, []string{uid1, uid2})
}

func TestFindPairHonorsLookahead(t *testing.T) {
	p := NewPairer(PairingConfig{
		BasePowerRange:      0.20,
		PowerRangeExpansion: 0.10,
		RangeInterval:       5 * time.Second,
		BaseEloRange:        100,
		EloRangeExpansion:   50,
		Lookahead:           1,
		MaxRangeExpansions:  10,
	})
	now := time.Now()

	// s1 may only inspect s2 (incompatible); s2 inspects s3 (compatible).
	entries := []QueueEntry{
		waitingEntry("s1", 1, 100, 1000, 0),
		waitingEntry("s2", 2, 400, 1000, 0),
		waitingEntry("s3", 3, 410, 1000, 0),
	}
	uid1, uid2, ok := p.FindPair(entries, now)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"s2", "s3"}, []string{uid1, uid2})
}

func TestFindPairEmptyAndSingle(t *testing.T) {
	p := testPairer()
	now := time.Now()

	_, _, ok := p.FindPair(nil, now)
	assert.False(t, ok)

	_, _, ok = p.FindPair([]QueueEntry{waitingEntry("s1", 1, 100, 1000, 0)}, now)
	assert.False(t, ok)
}
