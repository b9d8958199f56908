package ports

import (
	"context"

	"lunchroom/internal/core/domain/model/kernel"
)

// Authorization is the gateway's handle for a created payment intent: the id
// persisted on the order and the client secret the caller needs to complete
// payment interactively.
type Authorization struct {
	ID           string
	ClientSecret string
}

// IntentState is the gateway-side status of a payment intent as seen by
// reconciliation.
type IntentState int

const (
	// IntentUnknown catches unrecognized gateway statuses.
	IntentUnknown IntentState = iota

	// IntentPending means the intent exists but no final outcome yet.
	IntentPending

	// IntentSucceeded means the charge completed at the gateway.
	IntentSucceeded

	// IntentCanceled means the intent was voided or the attempt failed
	// terminally.
	IntentCanceled
)

// PaymentGateway is the external payment collaborator. Every call is an
// out-of-process request and must respect the context deadline; failures
// surface as errs.DependencyFailedError, never as a hang.
type PaymentGateway interface {
	// CreateIntent authorizes the given amount for the customer and returns
	// the gateway handle. The order number travels as metadata so webhook
	// events can be correlated.
	CreateIntent(ctx context.Context, amount kernel.Money, customerEmail, orderNumber string) (Authorization, error)

	// RetrieveIntentState reads the current gateway-side state of an intent.
	RetrieveIntentState(ctx context.Context, intentID string) (IntentState, error)

	// Refund returns the full amount of a charged intent. Used both for
	// explicit refunds and as saga compensation when persistence fails after
	// a successful authorization.
	Refund(ctx context.Context, intentID string) error
}
