package usecase

import (
	"context"
	"strings"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

type RedirectConfig struct {
	// FrontendURL is the storefront origin; success lands on its enrollments page.
	FrontendURL string
}

func (c RedirectConfig) successURL() string {
	return strings.TrimRight(c.FrontendURL, "/") + "/loading/my-enrollments"
}

func (c RedirectConfig) cancelURL() string {
	return strings.TrimRight(c.FrontendURL, "/")
}

type PurchaseUseCase struct {
	purchases PurchaseRepository
	users     UserRepository
	courses   CourseRepository
	gateway   PaymentGateway
	redirect  RedirectConfig
	log       zerolog.Logger
}

func NewPurchaseUseCase(
	pr PurchaseRepository,
	ur UserRepository,
	cr CourseRepository,
	gw PaymentGateway,
	redirect RedirectConfig,
	log zerolog.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		purchases: pr,
		users:     ur,
		courses:   cr,
		gateway:   gw,
		redirect:  redirect,
		log:       log,
	}
}

// PurchaseCourse records a pending purchase and returns the provider-hosted checkout URL.
// Enrollment is granted later, when the provider confirms the payment.
func (uc *PurchaseUseCase) PurchaseCourse(ctx context.Context, userID string, courseID uuid.UUID) (string, error) {
	ctx, span := tracer.Start(ctx, "PurchaseCourse")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("course.id", courseID.String()))

	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return "", recordErr(span, err)
	}
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return "", recordErr(span, err)
	}

	purchase := &domain.Purchase{
		ID:       uuid.New(),
		CourseID: course.ID,
		UserID:   userID,
		Amount:   course.PurchaseAmount(),
		Status:   domain.PurchasePending,
	}
	if err := uc.purchases.Create(ctx, purchase); err != nil {
		return "", recordErr(span, err)
	}

	session, err := uc.gateway.CreateCheckoutSession(ctx, domain.CheckoutRequest{
		PurchaseID:  purchase.ID,
		CourseTitle: course.Title,
		Amount:      purchase.Amount,
		SuccessURL:  uc.redirect.successURL(),
		CancelURL:   uc.redirect.cancelURL(),
	})
	if err != nil {
		// The purchase stays pending; it is never deleted.
		uc.log.Error().Err(err).
			Str("purchase_id", purchase.ID.String()).
			Msg("checkout session was not opened")
		return "", recordErr(span, errors.Wrapf(err, "purchase %s", purchase.ID))
	}

	uc.log.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("user_id", userID).
		Str("course_id", course.ID.String()).
		Str("amount", purchase.Amount.StringFixed(2)).
		Str("session_id", session.ID).
		Msg("purchase pending")
	return session.URL, nil
}
