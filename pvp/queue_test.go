package pvp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(uid string, playerID uint64, power int) *QueueEntry {
	return &QueueEntry{
		SessionUID: uid,
		PlayerID:   playerID,
		Power:      power,
		EnqueuedAt: time.Now(),
	}
}

func TestQueueRejectsDuplicates(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.Enqueue(entry("s1", 1, 100)))

	assert.ErrorIs(t, q.Enqueue(entry("s1", 2, 100)), ErrAlreadyQueued)
	// Same player reconnecting under a new session is still one slot.
	assert.ErrorIs(t, q.Enqueue(entry("s2", 1, 100)), ErrAlreadyQueued)
	assert.Equal(t, 1, q.Len())
}

func TestQueueDequeueIdempotent(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.Enqueue(entry("s1", 1, 100)))

	q.Dequeue("s1")
	q.Dequeue("s1")
	q.Dequeue("never-queued")
	assert.Equal(t, 0, q.Len())

	// A dequeued player can requeue.
	assert.NoError(t, q.Enqueue(entry("s1", 1, 100)))
}

func TestQueueSnapshotOrderedByPower(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.Enqueue(entry("s1", 1, 300)))
	require.NoError(t, q.Enqueue(entry("s2", 2, 100)))
	require.NoError(t, q.Enqueue(entry("s3", 3, 200)))

	snap := q.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []int{100, 200, 300}, []int{snap[0].Power, snap[1].Power, snap[2].Power})

	// Snapshots are copies; mutating one must not touch the queue.
	snap[0].Power = 9999
	assert.Equal(t, 100, q.Snapshot()[0].Power)
}

func TestQueueTakePairAtomic(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.Enqueue(entry("s1", 1, 100)))
	require.NoError(t, q.Enqueue(entry("s2", 2, 110)))

	e1, e2, ok := q.TakePair("s1", "s2")
	require.True(t, ok)
	assert.Equal(t, uint64(1), e1.PlayerID)
	assert.Equal(t, uint64(2), e2.PlayerID)
	assert.Equal(t, 0, q.Len())

	// A racing pass that selected the same snapshot loses cleanly.
	_, _, ok = q.TakePair("s1", "s2")
	assert.False(t, ok)
}

func TestQueueTakePairAllOrNothing(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.Enqueue(entry("s1", 1, 100)))

	_, _, ok := q.TakePair("s1", "s2")
	assert.False(t, ok)
	// The present entry must not have been consumed.
	assert.Equal(t, 1, q.Len())
}
