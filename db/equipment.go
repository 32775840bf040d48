package db

import "github.com/Sparksx/forge-arena/model"

type equipment db

func (e *equipment) ListByPlayer(playerID uint64) ([]model.Equipment, error) {
	var items []model.Equipment
	err := e.db.Where("player_id = ?", playerID).Find(&items).Error
	return items, err
}
