package usecase

import (
	"context"

	"coursemarket/internal/domain"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// Outcome tells the webhook transport what happened to a delivery. Every outcome is
// acknowledged; only a returned error makes the provider redeliver.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeStale     Outcome = "stale"
)

type Dispatcher struct {
	gateway    PaymentGateway
	reconciler *Reconciler
	log        zerolog.Logger
}

func NewDispatcher(gw PaymentGateway, r *Reconciler, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{gateway: gw, reconciler: r, log: log}
}

// Dispatch routes a verified payment event. The purchase is found through the checkout
// session that produced the payment intent, never through the event payload itself.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *domain.PaymentEvent) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "Dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("event.id", ev.ID), attribute.String("event.type", string(ev.Type)))

	if ev.Type.Outcome() == domain.OutcomeUnknown {
		d.log.Info().
			Str("event_id", ev.ID).
			Str("event_type", string(ev.Type)).
			Msg("unhandled event type")
		return OutcomeIgnored, nil
	}

	purchaseID, err := d.gateway.PurchaseIDForPaymentIntent(ctx, ev.PaymentIntentID)
	if err != nil {
		return d.settle(ev, recordErr(span, err))
	}

	res, err := d.reconciler.Reconcile(ctx, purchaseID, *ev)
	if err != nil {
		return d.settle(ev, err)
	}
	if res.Transitioned {
		return OutcomeApplied, nil
	}
	return OutcomeDuplicate, nil
}

// settle acknowledges stale references (retrying cannot fix them) and hands everything
// else back so the provider redelivers.
func (d *Dispatcher) settle(ev *domain.PaymentEvent, err error) (Outcome, error) {
	if errors.Is(err, domain.ErrStaleReference) {
		d.log.Error().Err(err).
			Str("event_id", ev.ID).
			Str("event_type", string(ev.Type)).
			Str("payment_intent", ev.PaymentIntentID).
			Bool("manual_review", true).
			Msg("stale reference, acknowledging without retry")
		return OutcomeStale, nil
	}
	return "", err
}
