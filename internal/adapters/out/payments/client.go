// Package payments integrates the card processor's REST API. Orders are paid
// through payment intents: checkout creates one, the browser confirms it with
// the client secret, and the processor reports the outcome via webhook. The
// reconciliation job polls the same API for intents whose webhook never
// arrived.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/ports"
	"lunchroom/internal/pkg/errs"
)

const (
	dependencyName = "payment gateway"

	// Charges are priced in the office's billing currency.
	currency = "usd"

	defaultTimeout = 10 * time.Second
)

// Client implements ports.PaymentGateway against a Stripe-compatible API.
// Requests are form-encoded and authenticated with the secret key as a
// bearer token.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a gateway client. The base URL points at the processor's
// API root, e.g. https://api.stripe.com or a test double.
func NewClient(baseURL, secretKey string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if secretKey == "" {
		return nil, errs.NewValueIsRequiredError("secretKey")
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// intentResponse is the subset of the payment intent resource the order core
// needs.
type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CreateIntent authorizes the order total. The order number rides along as
// metadata so webhook events and support lookups can be correlated back to
// the order.
func (c *Client) CreateIntent(
	ctx context.Context,
	amount kernel.Money,
	customerEmail string,
	orderNumber string,
) (ports.Authorization, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount.Cents(), 10))
	form.Set("currency", currency)
	form.Set("receipt_email", customerEmail)
	form.Set("metadata[order_number]", orderNumber)
	form.Set("automatic_payment_methods[enabled]", "true")

	var resp intentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, &resp); err != nil {
		return ports.Authorization{}, err
	}
	if resp.ID == "" || resp.ClientSecret == "" {
		return ports.Authorization{}, errs.NewDependencyFailedError(dependencyName)
	}

	return ports.Authorization{ID: resp.ID, ClientSecret: resp.ClientSecret}, nil
}

// RetrieveIntentState reads the processor-side status of an intent.
func (c *Client) RetrieveIntentState(ctx context.Context, intentID string) (ports.IntentState, error) {
	if intentID == "" {
		return ports.IntentUnknown, errs.NewValueIsRequiredError("intentID")
	}

	var resp intentResponse
	path := "/v1/payment_intents/" + url.PathEscape(intentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return ports.IntentUnknown, err
	}
	return stateFromStatus(resp.Status), nil
}

// Refund returns the full charged amount of an intent.
func (c *Client) Refund(ctx context.Context, intentID string) error {
	if intentID == "" {
		return errs.NewValueIsRequiredError("intentID")
	}

	form := url.Values{}
	form.Set("payment_intent", intentID)

	var resp struct {
		ID string `json:"id"`
	}
	return c.do(ctx, http.MethodPost, "/v1/refunds", form, &resp)
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errs.NewDependencyFailedErrorWithCause(dependencyName, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewDependencyFailedErrorWithCause(dependencyName, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errs.NewDependencyFailedErrorWithCause(dependencyName, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewDependencyFailedErrorWithCause(
			dependencyName,
			fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, apiErrorMessage(payload)),
		)
	}

	if err = json.Unmarshal(payload, out); err != nil {
		return errs.NewDependencyFailedErrorWithCause(dependencyName, err)
	}
	return nil
}

// apiErrorMessage extracts the processor's error message from a failed
// response body, falling back to the raw body.
func apiErrorMessage(payload []byte) string {
	var wrapper struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &wrapper); err == nil && wrapper.Error.Message != "" {
		return wrapper.Error.Message
	}
	if len(payload) > 200 {
		payload = payload[:200]
	}
	return string(payload)
}

func stateFromStatus(status string) ports.IntentState {
	switch status {
	case "succeeded":
		return ports.IntentSucceeded
	case "canceled":
		return ports.IntentCanceled
	case "processing", "requires_payment_method", "requires_confirmation", "requires_action", "requires_capture":
		return ports.IntentPending
	default:
		return ports.IntentUnknown
	}
}
