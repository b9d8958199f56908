package commands

import (
	"errors"

	"lunchroom/internal/core/domain/model/kernel"
)

var ErrFulfillMenuItemCommandIsNotConstructed = errors.New(
	"FulfillMenuItemCommand must be created via NewFulfillMenuItemCommand constructor",
)

// FulfillMenuItemCommand represents a batch kitchen action: a dish finished
// cooking, so every still-placed line referencing it on the given day should
// be marked fulfilled at once.
type FulfillMenuItemCommand struct { //nolint:recvcheck //using for validation
	menuItemID kernel.UUID
	day        kernel.Day

	guard kernel.ConstructorGuard
}

// NewFulfillMenuItemCommand creates a batch fulfillment command for the given
// catalog item and meal day.
func NewFulfillMenuItemCommand(menuItemID kernel.UUID, day kernel.Day) (FulfillMenuItemCommand, error) {
	cmd := FulfillMenuItemCommand{
		day:   day,
		guard: kernel.NewConstructorGuard(),
	}

	if err := cmd.setMenuItemID(menuItemID); err != nil {
		return FulfillMenuItemCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FulfillMenuItemCommand) Validate() error {
	return c.guard.Validate(ErrFulfillMenuItemCommandIsNotConstructed)
}

// MenuItemID returns the catalog item that finished cooking.
func (c FulfillMenuItemCommand) MenuItemID() kernel.UUID {
	return c.menuItemID
}

// Day returns the meal day whose orders are affected.
func (c FulfillMenuItemCommand) Day() kernel.Day {
	return c.day
}

func (c *FulfillMenuItemCommand) setMenuItemID(menuItemID kernel.UUID) error {
	if err := menuItemID.Validate(); err != nil {
		return err
	}

	c.menuItemID = menuItemID
	return nil
}
