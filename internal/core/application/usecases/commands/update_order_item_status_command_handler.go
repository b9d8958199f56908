package commands

import (
	"context"
	"time"

	"lunchroom/internal/core/domain/model/order"
)

// UpdateOrderItemStatusCommandHandler transitions a single order line and
// keeps the order-level status consistent with the rollup rule.
//
// The order row is read under a lock so two kitchen terminals marking
// different lines of the same order never lose each other's writes: each
// recomputes the rollup from the item set the other already committed.
type UpdateOrderItemStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

// NewUpdateOrderItemStatusCommandHandler creates a handler for line-level
// fulfillment updates.
func NewUpdateOrderItemStatusCommandHandler(
	uowFactory OrderUoWFactory,
	now func() time.Time,
) UpdateOrderItemStatusCommandHandler {
	return UpdateOrderItemStatusCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle processes the line transition and returns the updated aggregate so
// callers can render both the line and the derived order status. Marking an
// already-fulfilled line fulfilled again commits nothing and is not an error;
// moving a fulfilled line back surfaces order.ErrIllegalStatusTransition.
func (h UpdateOrderItemStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderItemStatusCommand,
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
	aggregate, err := orderRepo.GetByItemIDForUpdate(ctx, cmd.ItemID())
	if err != nil {
		return nil, err
	}

	changed, err := aggregate.SetItemStatus(cmd.ItemID(), cmd.Target(), h.now())
	if err != nil {
		return nil, err
	}

	if changed {
		if err = orderRepo.UpdateFulfillment(ctx, aggregate); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
