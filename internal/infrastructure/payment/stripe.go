package payment

import (
	"context"
	"net/http"
	"strings"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// MetadataPurchaseID is the checkout-session metadata key carrying our purchase id.
const MetadataPurchaseID = "purchaseId"

// StripeGateway opens checkout sessions and resolves them back to purchases.
type StripeGateway struct {
	api      *client.API
	currency string
}

// NewStripeGateway builds a client bound to secretKey. backends may be nil to talk to
// the live Stripe API.
func NewStripeGateway(secretKey, currency string, backends *stripe.Backends) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeGateway{api: api, currency: strings.ToLower(currency)}
}

// UnitAmount converts a decimal amount into the provider's minor units (cents).
func UnitAmount(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.CourseTitle),
					},
					UnitAmount: stripe.Int64(UnitAmount(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(MetadataPurchaseID, req.PurchaseID.String())

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, classify(err, "create checkout session")
	}
	return &domain.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// PurchaseIDForPaymentIntent finds the checkout session that produced the payment intent
// and reads our purchase id from its metadata. The payment intent itself does not carry it.
func (g *StripeGateway) PurchaseIDForPaymentIntent(ctx context.Context, paymentIntentID string) (uuid.UUID, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx

	it := g.api.CheckoutSessions.List(params)
	for it.Next() {
		s := it.CheckoutSession()
		raw, ok := s.Metadata[MetadataPurchaseID]
		if !ok {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, errors.Wrapf(domain.ErrStaleReference, "session %s has malformed purchase id %q", s.ID, raw)
		}
		return id, nil
	}
	if err := it.Err(); err != nil {
		return uuid.Nil, classify(err, "list checkout sessions")
	}
	return uuid.Nil, errors.Wrapf(domain.ErrStaleReference, "no checkout session with purchase id for payment intent %s", paymentIntentID)
}

// classify maps provider failures: 5xx, 429 and network errors are transient, the rest are not.
func classify(err error, op string) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode >= http.StatusInternalServerError ||
			stripeErr.HTTPStatusCode == http.StatusTooManyRequests {
			return errors.Wrapf(domain.ErrTransientProvider, "%s: %s", op, stripeErr.Msg)
		}
		return errors.Wrapf(err, "%s", op)
	}
	return errors.Wrapf(domain.ErrTransientProvider, "%s: %v", op, err)
}
