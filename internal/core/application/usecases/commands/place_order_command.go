package commands

import (
	"errors"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/services"
	"lunchroom/internal/pkg/errs"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand or NewGuestPlaceOrderCommand constructor",
	)
	ErrOrderLinesAreRequired = errors.New("at least one order line is required")
)

// OrderLine is one requested cart line: the catalog item, how many, the
// variation choices, and optional free-text for the kitchen. Customizations
// carries the legacy unstructured variant text some clients still send.
type OrderLine struct {
	MenuItemID      kernel.UUID
	Quantity        int
	Selections      []services.Selection
	Customizations  string
	SpecialRequests string
}

// PlaceOrderCommand represents a checkout request from either a registered
// user or a guest. Exactly one of the two identities is set, mirroring the
// ownership rule of the order aggregate itself.
//
// Example:
//
//	cmd, err := NewGuestPlaceOrderCommand("ada@example.com", "Ada", "Lovelace", lines, "no onions")
//	if err != nil {
//	    return fmt.Errorf("invalid checkout data: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
//	fmt.Printf("order %s placed, complete payment with %s", result.OrderNumber, result.ClientSecret)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	userID         *kernel.UUID
	guestEmail     string
	guestFirstName string
	guestLastName  string
	lines          []OrderLine
	deliveryNotes  string

	guard kernel.ConstructorGuard
}

// NewPlaceOrderCommand creates a checkout command for an authenticated user.
// Validates the user id and that the cart has at least one well-formed line.
func NewPlaceOrderCommand(userID kernel.UUID, lines []OrderLine, deliveryNotes string) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		deliveryNotes: deliveryNotes,
		guard:         kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setLines(lines),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// NewGuestPlaceOrderCommand creates a checkout command for an unauthenticated
// caller. All three guest identity fields are required alongside the cart.
func NewGuestPlaceOrderCommand(
	email, firstName, lastName string,
	lines []OrderLine,
	deliveryNotes string,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		deliveryNotes: deliveryNotes,
		guard:         kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setGuest(email, firstName, lastName),
		cmd.setLines(lines),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through a constructor.
// Returns ErrPlaceOrderCommandIsNotConstructed if validation fails.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// IsGuest reports whether the checkout came from an unauthenticated caller.
func (c PlaceOrderCommand) IsGuest() bool {
	return c.userID == nil
}

// UserID returns the authenticated caller's id, the zero UUID for guests.
func (c PlaceOrderCommand) UserID() kernel.UUID {
	if c.userID == nil {
		return kernel.UUID{}
	}
	return *c.userID
}

// GuestEmail returns the guest's contact email, empty for registered callers.
func (c PlaceOrderCommand) GuestEmail() string {
	return c.guestEmail
}

// GuestFirstName returns the guest's first name.
func (c PlaceOrderCommand) GuestFirstName() string {
	return c.guestFirstName
}

// GuestLastName returns the guest's last name.
func (c PlaceOrderCommand) GuestLastName() string {
	return c.guestLastName
}

// Lines returns the requested cart lines.
func (c PlaceOrderCommand) Lines() []OrderLine {
	return c.lines
}

// DeliveryNotes returns the order-level free-text note.
func (c PlaceOrderCommand) DeliveryNotes() string {
	return c.deliveryNotes
}

func (c *PlaceOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = &userID
	return nil
}

func (c *PlaceOrderCommand) setGuest(email, firstName, lastName string) error {
	switch {
	case email == "":
		return errs.NewValueIsRequiredError("email")
	case firstName == "":
		return errs.NewValueIsRequiredError("firstName")
	case lastName == "":
		return errs.NewValueIsRequiredError("lastName")
	}

	c.guestEmail = email
	c.guestFirstName = firstName
	c.guestLastName = lastName
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrOrderLinesAreRequired
	}
	for _, line := range lines {
		if err := line.MenuItemID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("menuItemId", err)
		}
		if line.Quantity < 1 {
			return errs.NewValueIsInvalidError("quantity")
		}
	}

	c.lines = lines
	return nil
}
