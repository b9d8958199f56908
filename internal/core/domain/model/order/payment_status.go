package order

import (
	"fmt"

	"lunchroom/internal/pkg/errs"
)

// PaymentStatus is the billing state of an order, mutated only by gateway
// webhook events, the reconciliation job, and refund compensation.
//
// Transitions:
//
//	PaymentPending ──┬──> PaymentCompleted ──> PaymentRefunded
//	                 └──> PaymentFailed ────> PaymentCompleted
//
// A failed payment may still complete later: the customer can retry the same
// payment intent interactively, and the webhook reports whichever attempt
// finally succeeds.
type PaymentStatus int

const (
	// UnknownPayment catches uninitialized status values.
	UnknownPayment PaymentStatus = iota

	// PaymentPending is the initial status set at order creation.
	PaymentPending

	// PaymentCompleted means the gateway confirmed the charge.
	PaymentCompleted

	// PaymentFailed means the gateway reported the attempt failed.
	PaymentFailed

	// PaymentRefunded means a completed charge was returned.
	PaymentRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		UnknownPayment:   "Unknown",
		PaymentPending:   "PENDING",
		PaymentCompleted: "COMPLETED",
		PaymentFailed:    "FAILED",
		PaymentRefunded:  "REFUNDED",
	}
}

// PaymentStatusFromString parses a wire value such as "COMPLETED".
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, str := range getPaymentStatusStrings() {
		if str == s && status != UnknownPayment {
			return status, nil
		}
	}
	return UnknownPayment, errs.NewValueIsInvalidErrorWithCause(
		"payment status",
		fmt.Errorf("%q is not a valid payment status", s),
	)
}

// Validate rejects everything except the four real statuses.
func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status",
			fmt.Errorf("%d is not a valid payment status", s),
		)
	}
}

// Complete transitions to PaymentCompleted. Valid from Pending and Failed;
// re-completing a completed payment is a no-op (webhooks redeliver).
func (s PaymentStatus) Complete() (PaymentStatus, error) {
	switch s {
	case PaymentPending, PaymentFailed, PaymentCompleted:
		return PaymentCompleted, nil
	default:
		return UnknownPayment, errs.NewValueIsInvalidErrorWithCause(
			"payment status",
			fmt.Errorf("%s is not a valid status to complete payment from", s.String()),
		)
	}
}

// Fail transitions to PaymentFailed. Valid from Pending only; a completed or
// refunded payment cannot retroactively fail.
func (s PaymentStatus) Fail() (PaymentStatus, error) {
	switch s {
	case PaymentPending, PaymentFailed:
		return PaymentFailed, nil
	default:
		return UnknownPayment, errs.NewValueIsInvalidErrorWithCause(
			"payment status",
			fmt.Errorf("%s is not a valid status to fail payment from", s.String()),
		)
	}
}

// Refund transitions to PaymentRefunded. Valid from Completed only.
func (s PaymentStatus) Refund() (PaymentStatus, error) {
	if s != PaymentCompleted && s != PaymentRefunded {
		return UnknownPayment, errs.NewValueIsInvalidErrorWithCause(
			"payment status",
			fmt.Errorf("%s is not a valid status to refund from", s.String()),
		)
	}
	return PaymentRefunded, nil
}

// String returns the wire representation, "Unknown" for invalid values.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}
