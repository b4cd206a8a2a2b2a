package entity

import (
	"context"
	"time"

	"github.com/asolution/raffle/pkg/xcontext"
)

// Base has no soft-delete column: a deleted entry must release its contact
// identifier so that it can be submitted again.
type Base struct {
	ID        string `gorm:"primarykey;size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Entry{},
		&RaffleSettings{},
		&Winner{},
	)
}
