package order

import (
	"errors"
	"time"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root created once at checkout. It owns its items and
// both lifecycle statuses.
//
// Invariants maintained here:
//   - the total equals the rounded sum of the items' line totals, computed at
//     construction and never again
//   - exactly one owner identity (user reference or guest) is present
//   - item fulfillment is monotonic and the order-level status is always the
//     rollup of the item statuses
type Order struct {
	id            kernel.UUID
	number        string
	customer      Customer
	items         []*OrderItem
	totalAmount   kernel.Money
	paymentStatus PaymentStatus
	fulfillment   FulfillmentStatus
	orderDate     kernel.Day
	deliveryNotes string
	paymentRef    string
	createdAt     time.Time
	updatedAt     time.Time
	isConstructed bool
}

// NewOrder assembles a new order at checkout time. The order starts with
// payment PENDING and fulfillment PLACED on the order and every item, and the
// total is derived from the items once, here. paymentRef is the gateway's
// authorization id, created before the order is persisted.
func NewOrder(
	id kernel.UUID,
	number string,
	customer Customer,
	orderDate kernel.Day,
	items []*OrderItem,
	deliveryNotes string,
	paymentRef string,
	now time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("order items")
	}

	total := kernel.Zero()
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}

	return &Order{
		id:            id,
		number:        number,
		customer:      customer,
		items:         items,
		totalAmount:   total.Round2(),
		paymentStatus: PaymentPending,
		fulfillment:   Placed,
		orderDate:     orderDate,
		deliveryNotes: deliveryNotes,
		paymentRef:    paymentRef,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreOrder rehydrates an order from persistence. The stored total and
// statuses are trusted as-is: the total is immutable by design and must not
// be recomputed from items, whose catalog source may have changed since.
func RestoreOrder(
	id kernel.UUID,
	number string,
	customer Customer,
	orderDate kernel.Day,
	items []*OrderItem,
	totalAmount kernel.Money,
	paymentStatus PaymentStatus,
	fulfillment FulfillmentStatus,
	deliveryNotes string,
	paymentRef string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customer.Validate(),
		paymentStatus.Validate(),
		fulfillment.Validate(),
	); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("order items")
	}

	return &Order{
		id:            id,
		number:        number,
		customer:      customer,
		items:         items,
		totalAmount:   totalAmount,
		paymentStatus: paymentStatus,
		fulfillment:   fulfillment,
		orderDate:     orderDate,
		deliveryNotes: deliveryNotes,
		paymentRef:    paymentRef,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the human-readable order number (ORD-YYYYMMDD-NNNN).
func (o *Order) Number() string { return o.number }

// Customer returns the owner identity.
func (o *Order) Customer() Customer { return o.customer }

// Items returns the order lines.
func (o *Order) Items() []*OrderItem { return o.items }

// TotalAmount returns the charged total, derived once at creation.
func (o *Order) TotalAmount() kernel.Money { return o.totalAmount }

// PaymentStatus returns the billing state.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// FulfillmentStatus returns the derived kitchen readiness state.
func (o *Order) FulfillmentStatus() FulfillmentStatus { return o.fulfillment }

// OrderDate returns the calendar day the meal is for.
func (o *Order) OrderDate() kernel.Day { return o.orderDate }

// DeliveryNotes returns the order-level free-text note.
func (o *Order) DeliveryNotes() string { return o.deliveryNotes }

// PaymentRef returns the gateway authorization id.
func (o *Order) PaymentRef() string { return o.paymentRef }

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Item finds a line by its id.
func (o *Order) Item(itemID kernel.UUID) (*OrderItem, error) {
	for _, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderItemId", itemID.String())
}

// SetItemStatus transitions one line to target and re-derives the order-level
// status from the full current item set. Returns whether anything changed, so
// callers can skip redundant writes. A FULFILLED -> PLACED attempt fails with
// ErrIllegalStatusTransition and leaves the aggregate untouched.
func (o *Order) SetItemStatus(itemID kernel.UUID, target FulfillmentStatus, now time.Time) (bool, error) {
	item, err := o.Item(itemID)
	if err != nil {
		return false, err
	}

	changed, err := item.transition(target)
	if err != nil {
		return false, err
	}
	if changed {
		o.recomputeFulfillment(now)
	}
	return changed, nil
}

// SetAllItemsStatus transitions every line to the same target (the "mark
// whole order done" path). Each line goes through the one-way rule, so a bulk
// move back to PLACED fails if any line is already fulfilled; the order-level
// status is then recomputed from the resulting item set rather than trusting
// the caller's intent.
func (o *Order) SetAllItemsStatus(target FulfillmentStatus, now time.Time) error {
	if err := target.ValidateItemTarget(); err != nil {
		return err
	}
	for _, item := range o.items {
		if _, err := item.transition(target); err != nil {
			return err
		}
	}
	o.recomputeFulfillment(now)
	return nil
}

// CompletePayment records a gateway success event.
func (o *Order) CompletePayment(now time.Time) error {
	next, err := o.paymentStatus.Complete()
	if err != nil {
		return err
	}
	o.paymentStatus = next
	o.updatedAt = now
	return nil
}

// FailPayment records a gateway failure event.
func (o *Order) FailPayment(now time.Time) error {
	next, err := o.paymentStatus.Fail()
	if err != nil {
		return err
	}
	o.paymentStatus = next
	o.updatedAt = now
	return nil
}

// RefundPayment records a refund of a completed charge.
func (o *Order) RefundPayment(now time.Time) error {
	next, err := o.paymentStatus.Refund()
	if err != nil {
		return err
	}
	o.paymentStatus = next
	o.updatedAt = now
	return nil
}

func (o *Order) recomputeFulfillment(now time.Time) {
	statuses := make([]FulfillmentStatus, len(o.items))
	for i, item := range o.items {
		statuses[i] = item.Status()
	}
	o.fulfillment = RollupFulfillment(statuses)
	o.updatedAt = now
}
