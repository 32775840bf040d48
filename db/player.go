package db

import (
	"github.com/Sparksx/forge-arena/model"
	"gorm.io/gorm/clause"
)

type player db

// Upsert inserts the player row or refreshes its display fields, leaving
// rating and the win/loss record untouched for returning players.
func (p *player) Upsert(player *model.Player) error {
	return p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "avatar", "updated_at"}),
	}).Create(player).Error
}

func (p *player) Get(playerID uint64) (model.Player, error) {
	var player model.Player
	err := p.db.First(&player, "player_id = ?", playerID).Error
	return player, err
}

func (p *player) TopByRating(n int) ([]model.Player, error) {
	var players []model.Player
	err := p.db.Order("rating DESC").Limit(n).Find(&players).Error
	return players, err
}
