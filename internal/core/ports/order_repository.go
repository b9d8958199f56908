package ports

import (
	"context"
	"time"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Writes happen inside a unit of work; the ...ForUpdate reads take a row lock
// on the order so concurrent fulfillment updates from different kitchen
// terminals always recompute the rollup from the current item set.
type OrderRepository interface {
	// Add persists a new order and all of its items atomically within the
	// current transaction. The order must not already exist.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items by id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetOwned retrieves an order scoped to its owner: a non-nil userID
	// matches only that user's orders, nil matches only guest orders.
	// Orders outside the scope surface as not found.
	GetOwned(ctx context.Context, id kernel.UUID, userID *kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order with its items, locking the order row
	// until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByItemIDForUpdate retrieves the order containing the given item,
	// locked like GetForUpdate.
	GetByItemIDForUpdate(ctx context.Context, itemID kernel.UUID) (*order.Order, error)

	// GetByPaymentRef retrieves the order holding the given gateway
	// authorization id. Used by the payment webhook and reconciliation.
	GetByPaymentRef(ctx context.Context, paymentRef string) (*order.Order, error)

	// UpdateFulfillment persists the order-level fulfillment status and every
	// item status of the aggregate.
	UpdateFulfillment(ctx context.Context, aggregate *order.Order) error

	// UpdatePaymentStatus persists the order's payment status.
	UpdatePaymentStatus(ctx context.Context, aggregate *order.Order) error

	// NextDailySequence atomically increments and returns the per-day order
	// counter for the given meal day. Safe under concurrent same-day order
	// creation.
	NextDailySequence(ctx context.Context, day kernel.Day) (int, error)

	// FindUnfulfilledItemIDs returns the ids of all PLACED items referencing
	// the given menu item across orders of the given day.
	FindUnfulfilledItemIDs(ctx context.Context, day kernel.Day, menuItemID kernel.UUID) ([]kernel.UUID, error)

	// FindPendingCreatedBefore returns orders still in PENDING payment status
	// created before the cutoff, for reconciliation against the gateway.
	FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
