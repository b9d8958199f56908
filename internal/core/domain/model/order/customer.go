package order

import (
	"fmt"
	"strings"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/pkg/errs"
)

// Customer identifies the owner of an order: either a reference to a
// registered user or an embedded guest identity, never both and never
// neither. The billing email is carried for both kinds so the payment
// gateway always receives a contact.
type Customer struct {
	userID        *kernel.UUID
	email         string
	guestFirst    string
	guestLast     string
	isConstructed bool
}

// NewRegisteredCustomer creates the owner value for an authenticated caller.
// The email is the account's billing contact, looked up at checkout time.
func NewRegisteredCustomer(userID kernel.UUID, email string) (Customer, error) {
	if err := userID.Validate(); err != nil {
		return Customer{}, err
	}
	if email == "" {
		return Customer{}, errs.NewValueIsRequiredError("email")
	}
	return Customer{userID: &userID, email: email, isConstructed: true}, nil
}

// NewGuestCustomer creates the owner value for an unauthenticated caller.
// All three identity fields are required.
func NewGuestCustomer(email, firstName, lastName string) (Customer, error) {
	switch {
	case email == "":
		return Customer{}, errs.NewValueIsRequiredError("email")
	case firstName == "":
		return Customer{}, errs.NewValueIsRequiredError("firstName")
	case lastName == "":
		return Customer{}, errs.NewValueIsRequiredError("lastName")
	}
	return Customer{
		email:         strings.ToLower(email),
		guestFirst:    firstName,
		guestLast:     lastName,
		isConstructed: true,
	}, nil
}

// Validate enforces the exactly-one-owner invariant. Zero values fail, as
// does any hand-built combination of both identities.
func (c Customer) Validate() error {
	if !c.isConstructed {
		return errs.NewValueIsRequiredError("customer must be created via NewRegisteredCustomer or NewGuestCustomer")
	}
	if c.userID != nil && c.guestFirst != "" {
		return errs.NewValueIsInvalidErrorWithCause(
			"customer",
			fmt.Errorf("order cannot carry both a user reference and a guest identity"),
		)
	}
	return nil
}

// IsGuest reports whether the order belongs to a guest.
func (c Customer) IsGuest() bool {
	return c.userID == nil
}

// UserID returns the registered owner's id, nil for guests.
func (c Customer) UserID() *kernel.UUID {
	return c.userID
}

// Email returns the billing contact email.
func (c Customer) Email() string {
	return c.email
}

// GuestFirstName returns the guest's first name, empty for registered owners.
func (c Customer) GuestFirstName() string {
	return c.guestFirst
}

// GuestLastName returns the guest's last name, empty for registered owners.
func (c Customer) GuestLastName() string {
	return c.guestLast
}

// DisplayName renders the guest's full name for kitchen views. Registered
// owners resolve their display name via the account lookup on the read side,
// so this returns empty for them.
func (c Customer) DisplayName() string {
	if c.IsGuest() {
		return strings.TrimSpace(c.guestFirst + " " + c.guestLast)
	}
	return ""
}
