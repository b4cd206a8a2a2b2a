package repository

import (
	"context"

	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*entity.RaffleSettings, error)
	GetForUpdate(ctx context.Context) (*entity.RaffleSettings, error)
	Upsert(ctx context.Context, settings *entity.RaffleSettings) error
	UpdateStatus(ctx context.Context, status entity.RafflePhase) error
	Delete(ctx context.Context) error
}

type settingsRepository struct{}

func NewSettingsRepository() *settingsRepository {
	return &settingsRepository{}
}

func (r *settingsRepository) Get(ctx context.Context) (*entity.RaffleSettings, error) {
	var result entity.RaffleSettings
	err := xcontext.DB(ctx).Take(&result, "id=?", entity.CurrentSettingsID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetForUpdate reads the settings row and locks it until the current
// transaction finishes. Draw and publish serialize on this lock.
func (r *settingsRepository) GetForUpdate(ctx context.Context) (*entity.RaffleSettings, error) {
	var result entity.RaffleSettings
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", entity.CurrentSettingsID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Upsert always writes the row with id CurrentSettingsID, whatever the ID of
// the given settings is.
func (r *settingsRepository) Upsert(ctx context.Context, settings *entity.RaffleSettings) error {
	settings.ID = entity.CurrentSettingsID
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title",
			"start_time",
			"end_time",
			"winner_count",
			"status",
			"updated_at",
		}),
	}).Create(settings).Error
}

func (r *settingsRepository) UpdateStatus(ctx context.Context, status entity.RafflePhase) error {
	return xcontext.DB(ctx).Model(&entity.RaffleSettings{}).
		Where("id=?", entity.CurrentSettingsID).
		Update("status", status).Error
}

func (r *settingsRepository) Delete(ctx context.Context) error {
	return xcontext.DB(ctx).Delete(&entity.RaffleSettings{}, "id=?", entity.CurrentSettingsID).Error
}
