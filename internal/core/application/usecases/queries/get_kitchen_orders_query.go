// Package queries contains read-only operations for the kitchen dashboard and
// customer order views. Query handlers read the database directly with raw
// SQL, bypassing the domain aggregates, per the CQRS split.
package queries

import (
	"errors"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"
)

var ErrGetKitchenOrdersQueryIsNotConstructed = errors.New(
	"GetKitchenOrdersQuery must be created via NewGetKitchenOrdersQuery constructor",
)

// KitchenOrdersFilter narrows the kitchen listing. A nil field means no
// filtering on that dimension; MenuItemID keeps only orders containing the
// dish, with all of their items.
type KitchenOrdersFilter struct {
	FulfillmentStatus *order.FulfillmentStatus
	MenuItemID        *kernel.UUID
}

// GetKitchenOrdersQuery retrieves the orders of one meal day for the kitchen
// dashboard, items and customer names included, optionally filtered.
type GetKitchenOrdersQuery struct {
	day    kernel.Day
	filter KitchenOrdersFilter

	guard kernel.ConstructorGuard
}

// NewGetKitchenOrdersQuery creates an unfiltered query for the given meal day.
func NewGetKitchenOrdersQuery(day kernel.Day) GetKitchenOrdersQuery {
	return GetKitchenOrdersQuery{day: day, guard: kernel.NewConstructorGuard()}
}

// NewFilteredGetKitchenOrdersQuery creates a query for the given meal day with
// the filter applied.
func NewFilteredGetKitchenOrdersQuery(day kernel.Day, filter KitchenOrdersFilter) (GetKitchenOrdersQuery, error) {
	if filter.FulfillmentStatus != nil {
		if err := filter.FulfillmentStatus.Validate(); err != nil {
			return GetKitchenOrdersQuery{}, err
		}
	}
	if filter.MenuItemID != nil {
		if err := filter.MenuItemID.Validate(); err != nil {
			return GetKitchenOrdersQuery{}, err
		}
	}
	return GetKitchenOrdersQuery{day: day, filter: filter, guard: kernel.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetKitchenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetKitchenOrdersQueryIsNotConstructed)
}

// Day returns the meal day being listed.
func (q GetKitchenOrdersQuery) Day() kernel.Day {
	return q.day
}

// Filter returns the optional listing filter.
func (q GetKitchenOrdersQuery) Filter() KitchenOrdersFilter {
	return q.filter
}

// KitchenOrderVariationResponse is one chosen variation on an order line, as
// snapshotted at order time.
type KitchenOrderVariationResponse struct {
	GroupName  string
	OptionName string
}

// KitchenOrderItemResponse is one line of a kitchen order. Customizations is
// the legacy free-text variant field, shown alongside the structured
// variation snapshots.
type KitchenOrderItemResponse struct {
	ID              kernel.UUID
	MenuItemID      kernel.UUID
	MenuItemName    string
	Quantity        int
	Status          string
	Customizations  string
	SpecialRequests string
	Variations      []KitchenOrderVariationResponse
}

// KitchenOrderResponse is one order on the kitchen dashboard. CustomerName is
// resolved from the account for registered owners and from the embedded guest
// identity otherwise.
type KitchenOrderResponse struct {
	ID                kernel.UUID
	Number            string
	CustomerName      string
	FulfillmentStatus string
	PaymentStatus     string
	DeliveryNotes     string
	TotalAmount       kernel.Money
	Items             []KitchenOrderItemResponse
}
