package ports

import (
	"context"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/menu"
	"lunchroom/internal/core/domain/services"
)

// MenuRepository is the read-only view of the catalog the order core needs.
// Catalog content is owned by menu management elsewhere.
type MenuRepository interface {
	// GetActiveByIDs resolves active menu items with their variation groups
	// and options eagerly loaded. Missing or inactive ids are simply absent
	// from the result; the caller decides whether that rejects the cart.
	GetActiveByIDs(ctx context.Context, ids []kernel.UUID) ([]*menu.MenuItem, error)
}

// AccountStore is the minimal view of user accounts the order core needs:
// the guest-email collision check and the billing contact lookup.
type AccountStore interface {
	// EmailExists reports whether a registered account uses the given email.
	EmailExists(ctx context.Context, email string) (bool, error)

	// EmailByUserID returns the billing email of a registered user.
	EmailByUserID(ctx context.Context, userID kernel.UUID) (string, error)
}

// ConfigRepository reads operational configuration. The ordering window is
// read fresh on every order-creation attempt so admin changes take effect
// immediately.
type ConfigRepository interface {
	OrderingWindow(ctx context.Context) (services.Window, error)
}
