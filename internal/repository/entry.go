package repository

import (
	"context"

	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/pkg/xcontext"
	"gorm.io/gorm"
)

type EntryRepository interface {
	Create(ctx context.Context, entry *entity.Entry) error
	GetByID(ctx context.Context, id string) (*entity.Entry, error)
	GetByContactIdentifier(ctx context.Context, identifier string) (*entity.Entry, error)
	GetList(ctx context.Context) ([]entity.Entry, error)
	GetIDs(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type entryRepository struct{}

func NewEntryRepository() *entryRepository {
	return &entryRepository{}
}

func (r *entryRepository) Create(ctx context.Context, entry *entity.Entry) error {
	return xcontext.DB(ctx).Create(entry).Error
}

func (r *entryRepository) GetByID(ctx context.Context, id string) (*entity.Entry, error) {
	var result entity.Entry
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *entryRepository) GetByContactIdentifier(ctx context.Context, identifier string) (*entity.Entry, error) {
	var result entity.Entry
	err := xcontext.DB(ctx).Take(&result, "contact_identifier=?", identifier).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetList returns all entries, newest first.
func (r *entryRepository) GetList(ctx context.Context) ([]entity.Entry, error) {
	var result []entity.Entry
	if err := xcontext.DB(ctx).Order("created_at DESC, id DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// GetIDs returns the ids of all entries in a stable order.
func (r *entryRepository) GetIDs(ctx context.Context) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.Entry{}).Order("created_at, id").Pluck("id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *entryRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.Entry{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *entryRepository) Delete(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Entry{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *entryRepository) DeleteAll(ctx context.Context) error {
	return xcontext.DB(ctx).Where("1=1").Delete(&entity.Entry{}).Error
}
