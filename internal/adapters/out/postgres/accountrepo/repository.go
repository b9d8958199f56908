// Package accountrepo reads user accounts for the order core: the guest
// email collision check and the billing contact lookup. Account management
// itself lives outside this service.
package accountrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDTO is the database row for a registered account.
type UserDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex"`
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// TableName overrides GORM's default naming to use "users".
func (UserDTO) TableName() string {
	return "users"
}

// GormAccountRepository implements ports.AccountStore using GORM.
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GORM account repository.
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// EmailExists reports whether a registered account uses the given email.
// Comparison is case-insensitive; accounts store emails lowercased but older
// rows may predate that rule.
func (r *GormAccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, errs.NewValueIsRequiredError("email")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&UserDTO{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EmailByUserID returns the billing email of a registered user.
func (r *GormAccountRepository) EmailByUserID(ctx context.Context, userID kernel.UUID) (string, error) {
	if err := userID.Validate(); err != nil {
		return "", err
	}

	var dto UserDTO
	err := r.db.WithContext(ctx).
		Select("email").
		First(&dto, "id = ?", userID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errs.NewObjectNotFoundError("userId", userID.String())
	}
	if err != nil {
		return "", err
	}
	return dto.Email, nil
}
