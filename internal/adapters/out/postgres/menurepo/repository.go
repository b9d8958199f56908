package menurepo

import (
	"context"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/menu"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMenuRepository implements ports.MenuRepository using GORM.
type GormMenuRepository struct {
	db *gorm.DB
}

// NewGormMenuRepository creates a new GORM menu repository.
func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

// GetActiveByIDs loads active catalog items with groups and options in their
// display order. Missing and inactive ids are absent from the result.
func (r *GormMenuRepository) GetActiveByIDs(ctx context.Context, ids []kernel.UUID) ([]*menu.MenuItem, error) {
	if len(ids) == 0 {
		return []*menu.MenuItem{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []MenuItemDTO
	err := r.db.WithContext(ctx).
		Preload("Groups", func(db *gorm.DB) *gorm.DB {
			return db.Order("variation_groups.sort_order")
		}).
		Preload("Groups.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("variation_options.sort_order")
		}).
		Where("id IN ? AND is_active", raw).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	items := make([]*menu.MenuItem, 0, len(dtos))
	for _, dto := range dtos {
		item, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		items = append(items, item)
	}
	return items, nil
}
