package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/pkg/logger"
	"github.com/asolution/raffle/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateFixtureDb stores a settings row and the given entries. Entries are
// admin-sourced; their identifiers are "<name>@example.com".
func CreateFixtureDb(
	ctx context.Context, start, end time.Time, winnerCount int, names ...string,
) []entity.Entry {
	settings := &entity.RaffleSettings{
		Base:        entity.Base{ID: entity.CurrentSettingsID},
		Title:       "Fixture raffle",
		StartTime:   start,
		EndTime:     end,
		WinnerCount: winnerCount,
		Status:      entity.PhaseAt(xcontext.Now(ctx), start, end),
	}
	if err := xcontext.DB(ctx).Create(settings).Error; err != nil {
		panic(err)
	}

	return InsertEntries(ctx, names...)
}

func InsertEntries(ctx context.Context, names ...string) []entity.Entry {
	entries := []entity.Entry{}
	for i, name := range names {
		e := entity.Entry{
			Base: entity.Base{
				ID: uuid.NewString(),
				// Distinct timestamps keep "newest first" deterministic.
				CreatedAt: xcontext.Now(ctx).Add(time.Duration(i) * time.Millisecond),
			},
			Name:              name,
			ContactIdentifier: name + "@example.com",
			Phone:             sql.NullString{String: "555-000" + name, Valid: true},
			Source:            entity.AdminSource,
		}

		if err := xcontext.DB(ctx).Create(&e).Error; err != nil {
			panic(err)
		}
		entries = append(entries, e)
	}

	return entries
}

func CountRows(ctx context.Context, model any, query ...any) int64 {
	var count int64
	tx := xcontext.DB(ctx).Model(model)
	if len(query) > 0 {
		tx = tx.Where(query[0], query[1:]...)
	}

	if err := tx.Count(&count).Error; err != nil {
		panic(err)
	}

	return count
}

func gormConfig(l logger.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGormLogger(l, logger.ERROR),
	}
}
