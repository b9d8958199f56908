package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/pkg/errs"
)

// ErrInvalidSignature rejects webhook deliveries that fail verification.
// The HTTP layer maps it to 400 without processing the event.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// signatureTolerance bounds the age of a signed webhook delivery. Replays of
// an old capture outside this window are rejected even with a valid MAC.
const signatureTolerance = 5 * time.Minute

// WebhookVerifier checks processor webhook signatures. The processor signs
// "<timestamp>.<payload>" with HMAC-SHA256 under the endpoint secret and
// sends both in the signature header as "t=<unix>,v1=<hex>".
type WebhookVerifier struct {
	secret string
	now    func() time.Time
}

// NewWebhookVerifier creates a verifier for the given endpoint secret.
func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("secret")
	}
	return &WebhookVerifier{secret: secret, now: time.Now}, nil
}

// Verify authenticates one delivery. Any malformed header, stale timestamp,
// or MAC mismatch returns ErrInvalidSignature.
func (v *WebhookVerifier) Verify(payload []byte, signatureHeader string) error {
	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return err
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, signature := range signatures {
		decoded, decodeErr := hex.DecodeString(signature)
		if decodeErr != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching signature", ErrInvalidSignature)
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("%w: missing signature header", ErrInvalidSignature)
	}

	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
			}
			timestamp = parsed
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: malformed signature header", ErrInvalidSignature)
	}
	return timestamp, signatures, nil
}

// Event is one processor notification after signature verification.
// PaymentRef is the payment intent id the order was created with.
type Event struct {
	Type       string
	PaymentRef string
}

// ParseEvent extracts the event type and payment reference from a verified
// webhook payload. Charge events carry the intent id in a separate field
// from intent events.
func ParseEvent(payload []byte) (Event, error) {
	var envelope struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID            string `json:"id"`
				Object        string `json:"object"`
				PaymentIntent string `json:"payment_intent"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return Event{}, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}
	if envelope.Type == "" {
		return Event{}, errs.NewValueIsRequiredError("type")
	}

	ref := envelope.Data.Object.ID
	if envelope.Data.Object.Object == "charge" {
		ref = envelope.Data.Object.PaymentIntent
	}

	return Event{Type: envelope.Type, PaymentRef: ref}, nil
}

// Outcome maps the event type to the order payment outcome. The second
// return is false for event types the order core does not act on.
func (e Event) Outcome() (order.PaymentStatus, bool) {
	switch e.Type {
	case "payment_intent.succeeded":
		return order.PaymentCompleted, true
	case "payment_intent.payment_failed":
		return order.PaymentFailed, true
	case "charge.refunded":
		return order.PaymentRefunded, true
	default:
		return order.UnknownPayment, false
	}
}
