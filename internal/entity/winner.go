package entity

import (
	"database/sql"
	"time"
)

type Winner struct {
	Base

	// DrawID identifies the batch created by one draw. Ranks are dense within a
	// batch.
	DrawID int64 `gorm:"not null;uniqueIndex:idx_winners_draw_rank"`

	EntryID string `gorm:"size:64;not null;index"`
	Entry   Entry  `gorm:"foreignKey:EntryID"`

	Rank int `gorm:"column:winner_rank;not null;uniqueIndex:idx_winners_draw_rank"`

	Published   bool `gorm:"not null;index"`
	DrawnAt     time.Time
	PublishedAt sql.NullTime
}
