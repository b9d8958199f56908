package commands

import (
	"errors"
	"fmt"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/pkg/errs"
)

var ErrRecordPaymentEventCommandIsNotConstructed = errors.New(
	"RecordPaymentEventCommand must be created via NewRecordPaymentEventCommand constructor",
)

// RecordPaymentEventCommand represents one payment outcome reported by the
// gateway, either through a webhook delivery or by the reconciliation job.
// The payment reference is the gateway's intent id persisted on the order.
type RecordPaymentEventCommand struct { //nolint:recvcheck //using for validation
	paymentRef string
	outcome    order.PaymentStatus

	guard kernel.ConstructorGuard
}

// NewRecordPaymentEventCommand creates a command recording a payment outcome.
// The outcome must be COMPLETED, FAILED, or REFUNDED; PENDING is the initial
// state, never an event.
func NewRecordPaymentEventCommand(
	paymentRef string,
	outcome order.PaymentStatus,
) (RecordPaymentEventCommand, error) {
	cmd := RecordPaymentEventCommand{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPaymentRef(paymentRef),
		cmd.setOutcome(outcome),
	); err != nil {
		return RecordPaymentEventCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordPaymentEventCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentEventCommandIsNotConstructed)
}

// PaymentRef returns the gateway intent id the event refers to.
func (c RecordPaymentEventCommand) PaymentRef() string {
	return c.paymentRef
}

// Outcome returns the reported payment outcome.
func (c RecordPaymentEventCommand) Outcome() order.PaymentStatus {
	return c.outcome
}

func (c *RecordPaymentEventCommand) setPaymentRef(paymentRef string) error {
	if paymentRef == "" {
		return errs.NewValueIsRequiredError("paymentRef")
	}

	c.paymentRef = paymentRef
	return nil
}

func (c *RecordPaymentEventCommand) setOutcome(outcome order.PaymentStatus) error {
	switch outcome {
	case order.PaymentCompleted, order.PaymentFailed, order.PaymentRefunded:
		c.outcome = outcome
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"payment outcome",
			fmt.Errorf("%s is not a recordable payment outcome", outcome.String()),
		)
	}
}
