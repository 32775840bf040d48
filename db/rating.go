package db

import (
	"github.com/Sparksx/forge-arena/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type rating db

const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeDraw = "draw"
)

// ApplyDelta applies a rating change for one player of a finished match.
// The RatingEvent insert is the idempotency gate: if an event for this
// (match, player) already exists the insert affects no rows and the player
// row is left alone, so retries can never double-count.
func (r *rating) ApplyDelta(matchID string, playerID uint64, delta int, outcome string) error {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.RatingEvent{
		MatchID:  matchID,
		PlayerID: playerID,
		Delta:    delta,
		Outcome:  outcome,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	updates := map[string]interface{}{
		"rating": gorm.Expr("rating + ?", delta),
	}
	switch outcome {
	case OutcomeWin:
		updates["wins"] = gorm.Expr("wins + ?", 1)
	case OutcomeLoss:
		updates["losses"] = gorm.Expr("losses + ?", 1)
	}
	return r.db.Model(&model.Player{}).Where("player_id = ?", playerID).Updates(updates).Error
}
