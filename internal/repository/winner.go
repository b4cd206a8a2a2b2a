package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type WinnerRepository interface {
	CreateBatch(ctx context.Context, winners []entity.Winner) error
	GetDraft(ctx context.Context) ([]entity.Winner, error)
	GetLatestPublished(ctx context.Context) ([]entity.Winner, error)
	GetAll(ctx context.Context) ([]entity.Winner, error)
	Count(ctx context.Context, published bool) (int64, error)
	ExistsByEntryID(ctx context.Context, entryID string) (bool, error)
	Publish(ctx context.Context, publishedAt time.Time) (int64, error)
	DeleteUnpublished(ctx context.Context) error
	DeleteAll(ctx context.Context) error
}

type winnerRepository struct{}

func NewWinnerRepository() *winnerRepository {
	return &winnerRepository{}
}

func (r *winnerRepository) CreateBatch(ctx context.Context, winners []entity.Winner) error {
	if len(winners) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Omit(clause.Associations).Create(&winners).Error
}

func (r *winnerRepository) GetDraft(ctx context.Context) ([]entity.Winner, error) {
	var result []entity.Winner
	err := xcontext.DB(ctx).Preload("Entry").
		Where("published=?", false).
		Order("draw_id DESC, winner_rank ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetLatestPublished returns the most recently drawn batch among the published
// ones, ordered by rank.
func (r *winnerRepository) GetLatestPublished(ctx context.Context) ([]entity.Winner, error) {
	var drawID sql.NullInt64
	err := xcontext.DB(ctx).Model(&entity.Winner{}).
		Where("published=?", true).
		Select("MAX(draw_id)").
		Scan(&drawID).Error
	if err != nil {
		return nil, err
	}

	if !drawID.Valid {
		return nil, nil
	}

	var result []entity.Winner
	err = xcontext.DB(ctx).Preload("Entry").
		Where("published=? AND draw_id=?", true, drawID.Int64).
		Order("winner_rank ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetAll returns the draft batch first, then published batches from the newest
// one. Each batch is ordered by rank.
func (r *winnerRepository) GetAll(ctx context.Context) ([]entity.Winner, error) {
	var result []entity.Winner
	err := xcontext.DB(ctx).Preload("Entry").
		Order("published ASC, draw_id DESC, winner_rank ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *winnerRepository) Count(ctx context.Context, published bool) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Winner{}).
		Where("published=?", published).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *winnerRepository) ExistsByEntryID(ctx context.Context, entryID string) (bool, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Winner{}).
		Where("entry_id=?", entryID).
		Count(&result).Error
	if err != nil {
		return false, err
	}

	return result > 0, nil
}

// Publish flips every unpublished winner in a single statement and returns the
// number of published rows.
func (r *winnerRepository) Publish(ctx context.Context, publishedAt time.Time) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Winner{}).
		Where("published=?", false).
		Updates(map[string]any{
			"published":    true,
			"published_at": publishedAt,
		})
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *winnerRepository) DeleteUnpublished(ctx context.Context) error {
	return xcontext.DB(ctx).Delete(&entity.Winner{}, "published=?", false).Error
}

func (r *winnerRepository) DeleteAll(ctx context.Context) error {
	return xcontext.DB(ctx).Where("1=1").Delete(&entity.Winner{}).Error
}

