package payment

import (
	"encoding/json"
	"time"

	"coursemarket/internal/domain"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	stripePaymentSucceeded = "payment_intent.succeeded"
	stripePaymentFailed    = "payment_intent.payment_failed"
)

// StripeVerifier checks the Stripe-Signature header over the raw request body.
type StripeVerifier struct {
	secret    string
	tolerance time.Duration
}

func NewStripeVerifier(secret string, tolerance time.Duration) *StripeVerifier {
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &StripeVerifier{secret: secret, tolerance: tolerance}
}

type paymentIntentObject struct {
	ID               string `json:"id"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

// Verify returns a trusted event or an error wrapping domain.ErrAuthentication. A correctly
// signed payment event without a usable payment intent wraps domain.ErrStaleReference:
// redelivering it cannot help.
func (v *StripeVerifier) Verify(payload []byte, signatureHeader string) (*domain.PaymentEvent, error) {
	if signatureHeader == "" {
		return nil, errors.Wrap(domain.ErrAuthentication, "missing Stripe-Signature header")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, errors.Wrap(domain.ErrAuthentication, err.Error())
	}

	out := &domain.PaymentEvent{
		ID:      event.ID,
		Type:    domain.EventType(event.Type),
		Created: time.Unix(event.Created, 0),
	}
	switch string(event.Type) {
	case stripePaymentSucceeded:
		out.Type = domain.EventPaymentSucceeded
	case stripePaymentFailed:
		out.Type = domain.EventPaymentFailed
	default:
		return out, nil
	}

	if event.Data == nil {
		return nil, errors.Wrapf(domain.ErrStaleReference, "event %s has no data object", event.ID)
	}
	var pi paymentIntentObject
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, errors.Wrapf(domain.ErrStaleReference, "decode payment intent of %s: %v", event.ID, err)
	}
	if pi.ID == "" {
		return nil, errors.Wrapf(domain.ErrStaleReference, "event %s has no payment intent id", event.ID)
	}
	out.PaymentIntentID = pi.ID
	if pi.LastPaymentError != nil {
		out.FailureMessage = pi.LastPaymentError.Message
	}
	return out, nil
}
