package commands

import (
	"errors"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"
)

var ErrUpdateOrderItemStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderItemStatusCommand must be created via NewUpdateOrderItemStatusCommand constructor",
)

// UpdateOrderItemStatusCommand represents a kitchen request to move one order
// line to a new fulfillment status.
type UpdateOrderItemStatusCommand struct { //nolint:recvcheck //using for validation
	itemID kernel.UUID
	target order.FulfillmentStatus

	guard kernel.ConstructorGuard
}

// NewUpdateOrderItemStatusCommand creates a command to transition one order
// line. The target must be one of the two item-level statuses.
func NewUpdateOrderItemStatusCommand(
	itemID kernel.UUID,
	target order.FulfillmentStatus,
) (UpdateOrderItemStatusCommand, error) {
	cmd := UpdateOrderItemStatusCommand{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItemID(itemID),
		cmd.setTarget(target),
	); err != nil {
		return UpdateOrderItemStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderItemStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderItemStatusCommandIsNotConstructed)
}

// ItemID returns the order line to transition.
func (c UpdateOrderItemStatusCommand) ItemID() kernel.UUID {
	return c.itemID
}

// Target returns the requested fulfillment status.
func (c UpdateOrderItemStatusCommand) Target() order.FulfillmentStatus {
	return c.target
}

func (c *UpdateOrderItemStatusCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	c.itemID = itemID
	return nil
}

func (c *UpdateOrderItemStatusCommand) setTarget(target order.FulfillmentStatus) error {
	if err := target.ValidateItemTarget(); err != nil {
		return err
	}

	c.target = target
	return nil
}
