package commands

import (
	"context"
	"errors"
	"time"

	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/pkg/errs"
)

// ErrUnknownPaymentReference is returned when an event's payment reference
// matches no order. The webhook endpoint logs these and acknowledges anyway,
// since the gateway also delivers events for intents this system never
// created.
var ErrUnknownPaymentReference = errors.New("no order found for payment reference")

// RecordPaymentEventCommandHandler applies a gateway payment outcome to the
// owning order. Webhooks redeliver, so applying the same outcome twice is a
// no-op rather than an error; contradictory outcomes (failing a completed
// payment) are rejected by the status transition rules.
type RecordPaymentEventCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

// NewRecordPaymentEventCommandHandler creates a handler for payment events.
func NewRecordPaymentEventCommandHandler(
	uowFactory OrderUoWFactory,
	now func() time.Time,
) RecordPaymentEventCommandHandler {
	return RecordPaymentEventCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle looks the order up by payment reference and applies the outcome.
func (h RecordPaymentEventCommandHandler) Handle(ctx context.Context, cmd RecordPaymentEventCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByPaymentRef(ctx, cmd.PaymentRef())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrUnknownPaymentReference
	}
	if err != nil {
		return err
	}

	switch cmd.Outcome() {
	case order.PaymentCompleted:
		err = aggregate.CompletePayment(h.now())
	case order.PaymentFailed:
		err = aggregate.FailPayment(h.now())
	default:
		err = aggregate.RefundPayment(h.now())
	}
	if err != nil {
		return err
	}

	if err = orderRepo.UpdatePaymentStatus(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
