package usecase

import (
	"context"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

type ReconcileResult struct {
	PurchaseID uuid.UUID
	// Status is the purchase status after reconciliation.
	Status         domain.PurchaseStatus
	Transitioned   bool
	UserAppended   bool
	CourseAppended bool
}

// Reconciler applies a payment outcome to a purchase.
//
// pending + succeeded grants enrollment on both the user and the course, then moves the
// purchase to completed. pending + failed moves it to failed. Terminal purchases are left
// untouched. Enrollment appends run before the status update, so if anything fails midway
// the purchase is still pending and the provider's redelivery finishes the job.
type Reconciler struct {
	purchases PurchaseRepository
	users     UserRepository
	courses   CourseRepository
	log       zerolog.Logger
}

func NewReconciler(pr PurchaseRepository, ur UserRepository, cr CourseRepository, log zerolog.Logger) *Reconciler {
	return &Reconciler{purchases: pr, users: ur, courses: cr, log: log}
}

func (r *Reconciler) Reconcile(ctx context.Context, purchaseID uuid.UUID, ev domain.PaymentEvent) (*ReconcileResult, error) {
	ctx, span := tracer.Start(ctx, "Reconcile")
	defer span.End()
	span.SetAttributes(
		attribute.String("purchase.id", purchaseID.String()),
		attribute.String("event.type", string(ev.Type)),
	)

	outcome := ev.Type.Outcome()
	if outcome == domain.OutcomeUnknown {
		return nil, recordErr(span, errors.Errorf("event type %q carries no payment outcome", ev.Type))
	}

	p, err := r.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, recordErr(span, stale(err))
	}

	res := &ReconcileResult{PurchaseID: p.ID, Status: p.Status}
	if p.Status.IsTerminal() {
		r.log.Debug().
			Str("purchase_id", p.ID.String()).
			Str("status", string(p.Status)).
			Str("outcome", outcome.String()).
			Msg("purchase already settled, skipping")
		return res, nil
	}

	switch outcome {
	case domain.PaymentSucceeded:
		err = r.complete(ctx, p, res)
	case domain.PaymentFailed:
		err = r.fail(ctx, p, ev, res)
	}
	if err != nil {
		return nil, recordErr(span, err)
	}
	return res, nil
}

func (r *Reconciler) complete(ctx context.Context, p *domain.Purchase, res *ReconcileResult) error {
	if _, err := r.users.GetByID(ctx, p.UserID); err != nil {
		return stale(err)
	}
	if _, err := r.courses.GetByID(ctx, p.CourseID); err != nil {
		return stale(err)
	}

	var err error
	res.UserAppended, err = r.users.AppendEnrollment(ctx, p.UserID, p.CourseID)
	if err != nil {
		return err
	}
	res.CourseAppended, err = r.courses.AppendStudent(ctx, p.CourseID, p.UserID)
	if err != nil {
		return err
	}

	ok, err := r.purchases.TransitionStatus(ctx, p.ID, domain.PurchasePending, domain.PurchaseCompleted)
	if err != nil {
		return err
	}
	if !ok {
		return r.lostRace(ctx, p, res)
	}

	res.Status = domain.PurchaseCompleted
	res.Transitioned = true
	r.log.Info().
		Str("purchase_id", p.ID.String()).
		Str("user_id", p.UserID).
		Str("course_id", p.CourseID.String()).
		Bool("user_appended", res.UserAppended).
		Bool("course_appended", res.CourseAppended).
		Msg("purchase completed, enrollment granted")
	return nil
}

func (r *Reconciler) fail(ctx context.Context, p *domain.Purchase, ev domain.PaymentEvent, res *ReconcileResult) error {
	ok, err := r.purchases.TransitionStatus(ctx, p.ID, domain.PurchasePending, domain.PurchaseFailed)
	if err != nil {
		return err
	}
	if !ok {
		return r.lostRace(ctx, p, res)
	}

	res.Status = domain.PurchaseFailed
	res.Transitioned = true
	r.log.Warn().
		Str("purchase_id", p.ID.String()).
		Str("user_id", p.UserID).
		Str("course_id", p.CourseID.String()).
		Str("payment_intent", ev.PaymentIntentID).
		Str("reason", ev.FailureMessage).
		Msg("payment failed")
	return nil
}

// lostRace: another delivery settled the purchase between our read and our update.
func (r *Reconciler) lostRace(ctx context.Context, p *domain.Purchase, res *ReconcileResult) error {
	cur, err := r.purchases.GetByID(ctx, p.ID)
	if err != nil {
		return stale(err)
	}
	res.Status = cur.Status
	if cur.Status == domain.PurchaseFailed && (res.UserAppended || res.CourseAppended) {
		r.log.Error().
			Str("purchase_id", p.ID.String()).
			Bool("manual_review", true).
			Msg("enrollment granted while a concurrent delivery failed the purchase")
	}
	return nil
}

// stale turns a missing entity into ErrStaleReference; other errors pass through.
func stale(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return errors.Wrap(domain.ErrStaleReference, err.Error())
	}
	return err
}
