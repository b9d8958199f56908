// Package configrepo reads operational configuration from the system_configs
// key-value table. Missing keys fall back to built-in defaults so a fresh
// database is immediately usable.
package configrepo

import (
	"context"

	"lunchroom/internal/core/domain/services"

	"gorm.io/gorm"
)

// Config keys and their defaults. The defaults mirror the standard office
// lunch cutoff: order between 08:00 and 10:30, food arrives at noon.
const (
	KeyOrderWindowStart = "order_window_start"
	KeyOrderWindowEnd   = "order_window_end"

	defaultWindowStart = "08:00"
	defaultWindowEnd   = "10:30"
)

// ConfigDTO is one key-value row of system_configs.
type ConfigDTO struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// TableName overrides GORM's default naming to use "system_configs".
func (ConfigDTO) TableName() string {
	return "system_configs"
}

// GormConfigRepository implements ports.ConfigRepository using GORM.
type GormConfigRepository struct {
	db *gorm.DB
}

// NewGormConfigRepository creates a new GORM config repository.
func NewGormConfigRepository(db *gorm.DB) *GormConfigRepository {
	return &GormConfigRepository{db: db}
}

// OrderingWindow reads the configured window, applying defaults per key. An
// unparseable stored value is a configuration error and surfaces as such
// rather than silently reverting to defaults.
func (r *GormConfigRepository) OrderingWindow(ctx context.Context) (services.Window, error) {
	start, err := r.value(ctx, KeyOrderWindowStart, defaultWindowStart)
	if err != nil {
		return services.Window{}, err
	}
	end, err := r.value(ctx, KeyOrderWindowEnd, defaultWindowEnd)
	if err != nil {
		return services.Window{}, err
	}
	return services.ParseWindow(start, end)
}

func (r *GormConfigRepository) value(ctx context.Context, key, fallback string) (string, error) {
	var dtos []ConfigDTO
	if err := r.db.WithContext(ctx).Limit(1).Find(&dtos, "key = ?", key).Error; err != nil {
		return "", err
	}
	if len(dtos) == 0 || dtos[0].Value == "" {
		return fallback, nil
	}
	return dtos[0].Value, nil
}
