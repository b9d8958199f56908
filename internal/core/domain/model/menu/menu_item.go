package menu

import (
	"errors"
	"time"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/pkg/errs"
)

// ErrMenuItemIsNotConstructed is returned when a MenuItem was not created
// through the NewMenuItem factory.
var ErrMenuItemIsNotConstructed = errors.New("MenuItem must be created via NewMenuItem constructor")

// VariationOption is one selectable entry of a variation group. The price
// modifier is signed: options can add to or discount the base price.
type VariationOption struct {
	id        kernel.UUID
	name      string
	modifier  kernel.Money
	isDefault bool
}

// NewVariationOption creates an option. The default marker is informational
// for selection UIs; the core never substitutes defaults for missing
// selections.
func NewVariationOption(id kernel.UUID, name string, modifier kernel.Money, isDefault bool) (VariationOption, error) {
	if err := id.Validate(); err != nil {
		return VariationOption{}, err
	}
	if name == "" {
		return VariationOption{}, errs.NewValueIsRequiredError("option name")
	}
	return VariationOption{id: id, name: name, modifier: modifier, isDefault: isDefault}, nil
}

// ID returns the option identifier.
func (o VariationOption) ID() kernel.UUID { return o.id }

// Name returns the option display name.
func (o VariationOption) Name() string { return o.name }

// Modifier returns the signed price modifier.
func (o VariationOption) Modifier() kernel.Money { return o.modifier }

// IsDefault reports whether the selection UI should preselect this option.
func (o VariationOption) IsDefault() bool { return o.isDefault }

// VariationGroup is a priced customization dimension of a menu item, with a
// selection arity rule and an ordered set of options.
type VariationGroup struct {
	id            kernel.UUID
	name          string
	selectionType SelectionType
	required      bool
	options       []VariationOption
}

// NewVariationGroup creates a group with its options in display order.
func NewVariationGroup(
	id kernel.UUID,
	name string,
	selectionType SelectionType,
	required bool,
	options []VariationOption,
) (VariationGroup, error) {
	if err := errors.Join(id.Validate(), selectionType.Validate()); err != nil {
		return VariationGroup{}, err
	}
	if name == "" {
		return VariationGroup{}, errs.NewValueIsRequiredError("group name")
	}
	return VariationGroup{
		id:            id,
		name:          name,
		selectionType: selectionType,
		required:      required,
		options:       options,
	}, nil
}

// ID returns the group identifier.
func (g VariationGroup) ID() kernel.UUID { return g.id }

// Name returns the group display name.
func (g VariationGroup) Name() string { return g.name }

// SelectionType returns the arity rule of the group.
func (g VariationGroup) SelectionType() SelectionType { return g.selectionType }

// Required reports whether a selection in this group is mandatory.
func (g VariationGroup) Required() bool { return g.required }

// Options returns the options in display order.
func (g VariationGroup) Options() []VariationOption { return g.options }

// Option finds an option by id. The second return is false if the id does not
// belong to this group.
func (g VariationGroup) Option(id kernel.UUID) (VariationOption, bool) {
	for _, o := range g.options {
		if o.ID().IsEqual(id) {
			return o, true
		}
	}
	return VariationOption{}, false
}

// MenuItem is a catalog entry: a base price plus zero or more variation
// groups, offered on a set of weekdays. The order core reads it to price and
// validate carts; it never writes back.
type MenuItem struct {
	id            kernel.UUID
	name          string
	basePrice     kernel.Money
	category      string
	active        bool
	offeredOn     map[time.Weekday]bool
	groups        []VariationGroup
	isConstructed bool
}

// NewMenuItem creates a catalog item. Base price must not be negative; the
// name is required. An empty offeredOn set means the item is offered every
// weekday.
func NewMenuItem(
	id kernel.UUID,
	name string,
	basePrice kernel.Money,
	category string,
	active bool,
	offeredOn []time.Weekday,
	groups []VariationGroup,
) (*MenuItem, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("menu item name")
	}
	if basePrice.IsNegative() {
		return nil, errs.NewValueIsInvalidError("base price")
	}

	offered := make(map[time.Weekday]bool, len(offeredOn))
	for _, wd := range offeredOn {
		offered[wd] = true
	}

	return &MenuItem{
		id:            id,
		name:          name,
		basePrice:     basePrice,
		category:      category,
		active:        active,
		offeredOn:     offered,
		groups:        groups,
		isConstructed: true,
	}, nil
}

// Validate ensures the item came from NewMenuItem.
func (m *MenuItem) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMenuItemIsNotConstructed
	}
	return nil
}

// ID returns the item identifier.
func (m *MenuItem) ID() kernel.UUID { return m.id }

// Name returns the item display name.
func (m *MenuItem) Name() string { return m.name }

// BasePrice returns the price before variation modifiers.
func (m *MenuItem) BasePrice() kernel.Money { return m.basePrice }

// Category returns the catalog category.
func (m *MenuItem) Category() string { return m.category }

// IsActive reports whether the item is currently orderable.
func (m *MenuItem) IsActive() bool { return m.active }

// OfferedOn reports whether the item is offered on the given weekday.
// Items with no configured weekdays are offered on all of them.
func (m *MenuItem) OfferedOn(wd time.Weekday) bool {
	if len(m.offeredOn) == 0 {
		return true
	}
	return m.offeredOn[wd]
}

// Groups returns the variation groups in display order.
func (m *MenuItem) Groups() []VariationGroup { return m.groups }

// Group finds a variation group by id. The second return is false if the id
// does not belong to this item.
func (m *MenuItem) Group(id kernel.UUID) (VariationGroup, bool) {
	for _, g := range m.groups {
		if g.ID().IsEqual(id) {
			return g, true
		}
	}
	return VariationGroup{}, false
}
