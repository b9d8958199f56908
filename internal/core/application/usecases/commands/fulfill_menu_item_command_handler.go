package commands

import (
	"context"
	"time"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"
)

// FulfillMenuItemCommandHandler fans one batch action out across orders.
// The candidate lines are listed first without a transaction, then each line
// is transitioned in its own short transaction under the order's row lock, so
// a long batch never holds locks across unrelated orders and a failure leaves
// every previously processed order committed.
//
// Lines fulfilled concurrently between the listing and their turn in the loop
// are skipped by the idempotent transition, not treated as errors.
type FulfillMenuItemCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

// NewFulfillMenuItemCommandHandler creates a handler for batch fulfillment by
// menu item.
func NewFulfillMenuItemCommandHandler(
	uowFactory OrderUoWFactory,
	now func() time.Time,
) FulfillMenuItemCommandHandler {
	return FulfillMenuItemCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle processes the batch and returns how many lines actually changed.
func (h FulfillMenuItemCommandHandler) Handle(ctx context.Context, cmd FulfillMenuItemCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	itemIDs, err := h.uowFactory.Create().OrderRepository().
		FindUnfulfilledItemIDs(ctx, cmd.Day(), cmd.MenuItemID())
	if err != nil {
		return 0, err
	}

	fulfilled := 0
	for _, itemID := range itemIDs {
		changed, err := h.fulfillOne(ctx, itemID)
		if err != nil {
			return fulfilled, err
		}
		if changed {
			fulfilled++
		}
	}
	return fulfilled, nil
}

func (h FulfillMenuItemCommandHandler) fulfillOne(ctx context.Context, itemID kernel.UUID) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByItemIDForUpdate(ctx, itemID)
	if err != nil {
		return false, err
	}

	changed, err := aggregate.SetItemStatus(itemID, order.Fulfilled, h.now())
	if err != nil {
		return false, err
	}

	if changed {
		if err = orderRepo.UpdateFulfillment(ctx, aggregate); err != nil {
			return false, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return changed, nil
}
