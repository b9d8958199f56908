// Package menurepo reads the menu catalog for the order core: items with
// their variation groups and options. The order side never writes catalog
// data; menu management owns these tables.
package menurepo

import (
	"time"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/menu"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItemDTO is the database row for a catalog item. OfferedDays is a
// weekday bitmask (bit 1<<int(weekday)); zero means offered every weekday.
type MenuItemDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	BasePrice   decimal.Decimal `gorm:"type:numeric(10,2)"`
	Category    string
	IsActive    bool `gorm:"index"`
	OfferedDays int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Groups []VariationGroupDTO `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "menu_items".
func (MenuItemDTO) TableName() string {
	return "menu_items"
}

// VariationGroupDTO is the database row for one variation group of an item.
type VariationGroupDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	MenuItemID    uuid.UUID `gorm:"type:uuid;index"`
	Name          string
	SelectionType string
	Required      bool
	SortOrder     int

	Options []VariationOptionDTO `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "variation_groups".
func (VariationGroupDTO) TableName() string {
	return "variation_groups"
}

// VariationOptionDTO is the database row for one option within a group.
type VariationOptionDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID       uuid.UUID `gorm:"type:uuid;index"`
	Name          string
	PriceModifier decimal.Decimal `gorm:"type:numeric(10,2)"`
	IsDefault     bool
	SortOrder     int
}

// TableName overrides GORM's default naming to use "variation_options".
func (VariationOptionDTO) TableName() string {
	return "variation_options"
}

func toDomain(dto MenuItemDTO) (*menu.MenuItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	groups := make([]menu.VariationGroup, 0, len(dto.Groups))
	for _, groupDTO := range dto.Groups {
		group, groupErr := groupToDomain(groupDTO)
		if groupErr != nil {
			return nil, groupErr
		}
		groups = append(groups, group)
	}

	return menu.NewMenuItem(
		id,
		dto.Name,
		kernel.RestoreMoney(dto.BasePrice),
		dto.Category,
		dto.IsActive,
		decodeOfferedDays(dto.OfferedDays),
		groups,
	)
}

func groupToDomain(dto VariationGroupDTO) (menu.VariationGroup, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return menu.VariationGroup{}, err
	}
	selectionType, err := menu.SelectionTypeFromString(dto.SelectionType)
	if err != nil {
		return menu.VariationGroup{}, err
	}

	options := make([]menu.VariationOption, 0, len(dto.Options))
	for _, optionDTO := range dto.Options {
		option, optionErr := optionToDomain(optionDTO)
		if optionErr != nil {
			return menu.VariationGroup{}, optionErr
		}
		options = append(options, option)
	}

	return menu.NewVariationGroup(id, dto.Name, selectionType, dto.Required, options)
}

func optionToDomain(dto VariationOptionDTO) (menu.VariationOption, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return menu.VariationOption{}, err
	}
	return menu.NewVariationOption(id, dto.Name, kernel.RestoreMoney(dto.PriceModifier), dto.IsDefault)
}

func decodeOfferedDays(mask int) []time.Weekday {
	if mask == 0 {
		return nil
	}
	days := make([]time.Weekday, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if mask&(1<<int(wd)) != 0 {
			days = append(days, wd)
		}
	}
	return days
}

// EncodeOfferedDays packs weekdays into the stored bitmask; nil encodes to
// zero, meaning offered every weekday. Exported for seeding and tests.
func EncodeOfferedDays(days []time.Weekday) int {
	mask := 0
	for _, wd := range days {
		mask |= 1 << int(wd)
	}
	return mask
}
