package pvp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDeltaEvenMatch(t *testing.T) {
	e := RatingEngine{K: 32}
	d := e.ComputeDelta(1000, 1000, 500, 500)

	assert.Equal(t, 16, d.WinnerChange)
	assert.Equal(t, -16, d.LoserChange)
}

func TestComputeDeltaDecisiveBounds(t *testing.T) {
	e := RatingEngine{K: 32}

	// Even a crushing favorite moves at least one point each way.
	d := e.ComputeDelta(2400, 1000, 500, 500)
	assert.GreaterOrEqual(t, d.WinnerChange, 1)
	assert.LessOrEqual(t, d.LoserChange, -1)

	d = e.ComputeDelta(1000, 2400, 500, 500)
	assert.GreaterOrEqual(t, d.WinnerChange, 1)
	assert.LessOrEqual(t, d.LoserChange, -1)
}

func TestComputeDeltaPowerWeighting(t *testing.T) {
	e := RatingEngine{K: 32}

	upset := e.ComputeDelta(1000, 1000, 250, 500)   // beat a build twice as strong
	farming := e.ComputeDelta(1000, 1000, 500, 250) // beat a build half as strong

	assert.Greater(t, upset.WinnerChange, farming.WinnerChange)
	// The underpowered loser bleeds less than the overpowered one.
	assert.Greater(t, farming.LoserChange, upset.LoserChange)
}

func TestComputeDeltaPowerRatioClamped(t *testing.T) {
	e := RatingEngine{K: 32}

	// Ratio clamps at 4x, so the damped multiplier caps at sqrt(4)=2.
	extreme := e.ComputeDelta(1000, 1000, 1, 100000)
	clamped := e.ComputeDelta(1000, 1000, 100, 400)
	assert.Equal(t, clamped.WinnerChange, extreme.WinnerChange)
	assert.LessOrEqual(t, extreme.WinnerChange, 64)
}

func TestComputeDeltaZeroPowerGuard(t *testing.T) {
	e := RatingEngine{K: 32}
	d := e.ComputeDelta(1000, 1000, 0, 0)

	assert.GreaterOrEqual(t, d.WinnerChange, 1)
	assert.LessOrEqual(t, d.LoserChange, -1)
}
