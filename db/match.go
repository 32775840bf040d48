package db

import "github.com/Sparksx/forge-arena/model"

type match db

func (m *match) Create(record *model.Match) error {
	return m.db.Create(record).Error
}
