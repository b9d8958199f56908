package commands

import (
	"errors"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand represents a kitchen request to move every line of
// an order to the same fulfillment status at once.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.FulfillmentStatus

	guard kernel.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a command to transition a whole order.
// The target must be one of the two item-level statuses; the order-level
// status is always derived, never set directly.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	target order.FulfillmentStatus,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested fulfillment status for every line.
func (c UpdateOrderStatusCommand) Target() order.FulfillmentStatus {
	return c.target
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setTarget(target order.FulfillmentStatus) error {
	if err := target.ValidateItemTarget(); err != nil {
		return err
	}

	c.target = target
	return nil
}
