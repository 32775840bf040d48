package pvp

import (
	"testing"
	"time"

	"github.com/Sparksx/forge-arena/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls   int
	players []model.Player
}

func (c *countingSource) TopByRating(n int) ([]model.Player, error) {
	c.calls++
	if n < len(c.players) {
		return c.players[:n], nil
	}
	return c.players, nil
}

func boardFixture(ttl time.Duration) (*Leaderboard, *countingSource) {
	src := &countingSource{players: []model.Player{
		{PlayerID: 1, Name: "alice", Rating: 1200, Wins: 10, Losses: 2},
		{PlayerID: 2, Name: "bob", Rating: 1100, Wins: 5, Losses: 5},
	}}
	stats := &fakeStats{players: map[uint64]FighterStats{
		1: {Power: 450},
		2: {Power: 300},
	}}
	return NewLeaderboard(src, stats, 10, ttl), src
}

func TestLeaderboardCachesWithinTTL(t *testing.T) {
	board, src := boardFixture(time.Minute)

	first, err := board.Top()
	require.NoError(t, err)
	require.Len(t, first, 2)

	_, err = board.Top()
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
}

func TestLeaderboardRefreshesAfterTTL(t *testing.T) {
	board, src := boardFixture(time.Minute)

	_, err := board.Top()
	require.NoError(t, err)

	board.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = board.Top()
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestLeaderboardInvalidateForcesRefetch(t *testing.T) {
	board, src := boardFixture(time.Minute)

	_, err := board.Top()
	require.NoError(t, err)

	board.Invalidate()
	_, err = board.Top()
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestLeaderboardRowsCarryDerivedPower(t *testing.T) {
	board, _ := boardFixture(time.Minute)

	rows, err := board.Top()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, uint64(1), rows[0].PlayerID)
	assert.Equal(t, 1200, rows[0].Rating)
	assert.Equal(t, 450, rows[0].Power)
	assert.Equal(t, 300, rows[1].Power)

	// A player whose equipment can't be loaded still lists, power zeroed.
	board2 := NewLeaderboard(&countingSource{players: []model.Player{
		{PlayerID: 9, Name: "ghost", Rating: 1000},
	}}, &fakeStats{players: map[uint64]FighterStats{}}, 10, time.Minute)
	rows, err = board2.Top()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Power)
}
