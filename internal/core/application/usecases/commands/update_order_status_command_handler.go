package commands

import (
	"context"
	"time"

	"lunchroom/internal/core/domain/model/order"
)

// UpdateOrderStatusCommandHandler moves every line of an order to the same
// status in one transaction (the "mark whole order done" path). Each line
// still goes through the one-way transition rule, so a bulk move back to
// PLACED fails as soon as any line is already fulfilled.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

// NewUpdateOrderStatusCommandHandler creates a handler for order-wide
// fulfillment updates.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	now func() time.Time,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle processes the bulk transition and returns the updated aggregate.
func (h UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.SetAllItemsStatus(cmd.Target(), h.now()); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateFulfillment(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
