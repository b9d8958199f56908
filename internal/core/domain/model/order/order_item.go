package order

import (
	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/pkg/errs"
)

// maxQuantity bounds a single line; the original system has no bulk catering
// path, so anything larger is a client bug.
const maxQuantity = 100

// SelectedVariation is the denormalized snapshot of one chosen variation
// option, captured at order time so later catalog edits never change what a
// historical order shows. It is provenance and audit data only: the item's
// unit price already includes every modifier and is the single source of
// truth for billing.
type SelectedVariation struct {
	GroupID    kernel.UUID
	GroupName  string
	OptionID   kernel.UUID
	OptionName string
	Modifier   kernel.Money
}

// OrderItem is one line of an order. The unit price is an immutable snapshot
// taken at purchase time, variation modifiers included; fulfillment status is
// the only mutable field and moves through the parent aggregate.
type OrderItem struct {
	id              kernel.UUID
	menuItemID      kernel.UUID
	menuItemName    string
	quantity        int
	unitPrice       kernel.Money
	variations      []SelectedVariation
	customizations  string
	specialRequests string
	status          FulfillmentStatus
}

// NewOrderItem creates a line in Placed status. Quantity must be positive and
// the final unit price (base plus modifiers) must not be negative.
func NewOrderItem(
	id kernel.UUID,
	menuItemID kernel.UUID,
	menuItemName string,
	quantity int,
	unitPrice kernel.Money,
	variations []SelectedVariation,
	customizations string,
	specialRequests string,
) (*OrderItem, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := menuItemID.Validate(); err != nil {
		return nil, err
	}
	if quantity < 1 || quantity > maxQuantity {
		return nil, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, maxQuantity)
	}
	if unitPrice.IsNegative() {
		return nil, errs.NewValueIsInvalidError("unit price")
	}

	return &OrderItem{
		id:              id,
		menuItemID:      menuItemID,
		menuItemName:    menuItemName,
		quantity:        quantity,
		unitPrice:       unitPrice,
		variations:      variations,
		customizations:  customizations,
		specialRequests: specialRequests,
		status:          Placed,
	}, nil
}

// RestoreOrderItem rehydrates a line from persistence with its stored status.
func RestoreOrderItem(
	id kernel.UUID,
	menuItemID kernel.UUID,
	menuItemName string,
	quantity int,
	unitPrice kernel.Money,
	variations []SelectedVariation,
	customizations string,
	specialRequests string,
	status FulfillmentStatus,
) (*OrderItem, error) {
	item, err := NewOrderItem(id, menuItemID, menuItemName, quantity, unitPrice,
		variations, customizations, specialRequests)
	if err != nil {
		return nil, err
	}
	if err = status.ValidateItemTarget(); err != nil {
		return nil, err
	}
	item.status = status
	return item, nil
}

// ID returns the line identifier.
func (i *OrderItem) ID() kernel.UUID { return i.id }

// MenuItemID returns the referenced catalog item.
func (i *OrderItem) MenuItemID() kernel.UUID { return i.menuItemID }

// MenuItemName returns the item name snapshot taken at order time.
func (i *OrderItem) MenuItemName() string { return i.menuItemName }

// Quantity returns the ordered quantity.
func (i *OrderItem) Quantity() int { return i.quantity }

// UnitPrice returns the price actually charged per unit, modifiers included.
func (i *OrderItem) UnitPrice() kernel.Money { return i.unitPrice }

// Variations returns the selection snapshot taken at order time.
func (i *OrderItem) Variations() []SelectedVariation { return i.variations }

// Customizations returns the legacy free-text customization data.
func (i *OrderItem) Customizations() string { return i.customizations }

// SpecialRequests returns the line's free-text special request.
func (i *OrderItem) SpecialRequests() string { return i.specialRequests }

// Status returns the line's fulfillment status.
func (i *OrderItem) Status() FulfillmentStatus { return i.status }

// LineTotal returns unit price times quantity, unrounded; rounding happens
// once, on the order total.
func (i *OrderItem) LineTotal() kernel.Money {
	return i.unitPrice.Mul(i.quantity)
}

// transition moves the line to target under the one-way rule.
// Reports whether the status actually changed.
func (i *OrderItem) transition(target FulfillmentStatus) (bool, error) {
	next, err := i.status.TransitionItem(target)
	if err != nil {
		return false, err
	}
	changed := next != i.status
	i.status = next
	return changed, nil
}
