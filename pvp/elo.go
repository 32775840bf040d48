package pvp

import "math"

// RatingDelta is the signed change for each side of a decisive match.
// Draws never produce one.
type RatingDelta struct {
	WinnerChange int
	LoserChange  int
}

type RatingEngine struct {
	K float64
}

const (
	powerRatioMin = 0.25
	powerRatioMax = 4.0
)

// ComputeDelta is power-weighted Elo: the standard expectation curve, with
// the K-factor scaled by the square root of the opponents' power ratio so
// that beating a stronger build pays more than farming a weaker one.
// A decisive result always moves both ratings by at least one point.
func (e RatingEngine) ComputeDelta(winnerRating, loserRating, winnerPower, loserPower int) RatingDelta {
	expectedWinner := 1 / (1 + math.Pow(10, float64(loserRating-winnerRating)/400))
	expectedLoser := 1 - expectedWinner

	wp, lp := float64(winnerPower), float64(loserPower)
	if wp <= 0 {
		wp = 1
	}
	if lp <= 0 {
		lp = 1
	}
	winnerRatio := clampRatio(lp / wp)
	loserRatio := clampRatio(wp / lp)

	winnerChange := math.Round(e.K * math.Sqrt(winnerRatio) * (1 - expectedWinner))
	if winnerChange < 1 {
		winnerChange = 1
	}
	loserChange := math.Round(e.K / math.Sqrt(loserRatio) * (0 - expectedLoser))
	if loserChange > -1 {
		loserChange = -1
	}
	return RatingDelta{WinnerChange: int(winnerChange), LoserChange: int(loserChange)}
}

func clampRatio(r float64) float64 {
	if r < powerRatioMin {
		return powerRatioMin
	}
	if r > powerRatioMax {
		return powerRatioMax
	}
	return r
}
