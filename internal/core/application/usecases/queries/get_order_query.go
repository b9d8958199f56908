package queries

import (
	"errors"

	"lunchroom/internal/core/domain/model/kernel"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order scoped to its owner: a registered user
// sees only their own orders, the guest route sees only guest orders. An
// order outside the caller's scope reads as not found, never as forbidden,
// so the endpoint does not leak which ids exist.
type GetOrderQuery struct {
	orderID kernel.UUID
	ownerID *kernel.UUID

	guard kernel.ConstructorGuard
}

// NewGetOrderQuery creates an owner-scoped order lookup. A nil ownerID scopes
// the lookup to guest orders.
func NewGetOrderQuery(orderID kernel.UUID, ownerID *kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	if ownerID != nil {
		if err := ownerID.Validate(); err != nil {
			return GetOrderQuery{}, err
		}
	}
	return GetOrderQuery{orderID: orderID, ownerID: ownerID, guard: kernel.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order being looked up.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OwnerID returns the caller's user id, nil for the guest scope.
func (q GetOrderQuery) OwnerID() *kernel.UUID {
	return q.ownerID
}

// GetOrderQueryResponse is the customer-facing order view.
type GetOrderQueryResponse struct {
	ID                kernel.UUID
	Number            string
	FulfillmentStatus string
	PaymentStatus     string
	OrderDate         kernel.Day
	DeliveryNotes     string
	TotalAmount       kernel.Money
	Items             []KitchenOrderItemResponse
}
