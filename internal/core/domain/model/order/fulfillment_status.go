package order

import (
	"errors"
	"fmt"

	"lunchroom/internal/pkg/errs"
)

// ErrIllegalStatusTransition is returned for fulfillment transitions the state
// machine forbids, i.e. any attempt to move a FULFILLED item back to PLACED.
var ErrIllegalStatusTransition = errors.New("illegal fulfillment status transition")

// FulfillmentStatus is the kitchen-facing readiness state of an order or an
// order item, distinct from payment status.
//
// Item-level transitions:
//
//	Placed ──> Fulfilled
//
// Fulfilled is final for an item; re-applying Fulfilled is a harmless no-op so
// batch operations stay idempotent. The order-level value is never transitioned
// directly: it is derived from the item multiset by RollupFulfillment.
type FulfillmentStatus int

const (
	// UnknownFulfillment catches uninitialized status values.
	UnknownFulfillment FulfillmentStatus = iota

	// Placed is the initial status of every order and item.
	Placed

	// PartiallyFulfilled is an order-level-only status: some but not all
	// items are fulfilled.
	PartiallyFulfilled

	// Fulfilled means ready: for an item, the kitchen has prepared it; for
	// an order, every item is fulfilled.
	Fulfilled
)

func getFulfillmentStatusStrings() map[FulfillmentStatus]string {
	return map[FulfillmentStatus]string{
		UnknownFulfillment: "Unknown",
		Placed:             "PLACED",
		PartiallyFulfilled: "PARTIALLY_FULFILLED",
		Fulfilled:          "FULFILLED",
	}
}

// FulfillmentStatusFromString parses a wire value such as "FULFILLED".
func FulfillmentStatusFromString(s string) (FulfillmentStatus, error) {
	for status, str := range getFulfillmentStatusStrings() {
		if str == s && status != UnknownFulfillment {
			return status, nil
		}
	}
	return UnknownFulfillment, errs.NewValueIsInvalidErrorWithCause(
		"fulfillment status",
		fmt.Errorf("%q is not a valid fulfillment status", s),
	)
}

// Validate checks the value is one of the order-level statuses.
func (s FulfillmentStatus) Validate() error {
	switch s {
	case Placed, PartiallyFulfilled, Fulfilled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"fulfillment status",
			fmt.Errorf("%d is not a valid fulfillment status", s),
		)
	}
}

// ValidateItemTarget checks the value is usable as an item-level target.
// PartiallyFulfilled exists only as a derived order-level status.
func (s FulfillmentStatus) ValidateItemTarget() error {
	if s != Placed && s != Fulfilled {
		return errs.NewValueIsInvalidErrorWithCause(
			"fulfillment status",
			fmt.Errorf("%s is not a valid item status, use PLACED or FULFILLED", s.String()),
		)
	}
	return nil
}

// TransitionItem returns the item status after moving to target.
//
// Valid:
//   - Placed -> Placed (no-op)
//   - Placed -> Fulfilled
//   - Fulfilled -> Fulfilled (no-op, keeps batch retries idempotent)
//
// Invalid:
//   - Fulfilled -> Placed (fulfillment is monotonic)
//   - anything involving Unknown or PartiallyFulfilled
func (s FulfillmentStatus) TransitionItem(target FulfillmentStatus) (FulfillmentStatus, error) {
	if err := target.ValidateItemTarget(); err != nil {
		return UnknownFulfillment, err
	}
	if s == Fulfilled && target == Placed {
		return UnknownFulfillment, fmt.Errorf("%w: %s -> %s", ErrIllegalStatusTransition, s.String(), target.String())
	}
	return target, nil
}

// String returns the wire representation, "Unknown" for invalid values.
func (s FulfillmentStatus) String() string {
	if str, ok := getFulfillmentStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// RollupFulfillment derives the order-level status from the item statuses:
// Fulfilled when every item is fulfilled, Placed when none is, and
// PartiallyFulfilled otherwise. This function is the single source of the
// order-level value; callers persist its result rather than their intent.
func RollupFulfillment(items []FulfillmentStatus) FulfillmentStatus {
	fulfilled := 0
	for _, s := range items {
		if s == Fulfilled {
			fulfilled++
		}
	}

	switch {
	case len(items) > 0 && fulfilled == len(items):
		return Fulfilled
	case fulfilled == 0:
		return Placed
	default:
		return PartiallyFulfilled
	}
}
