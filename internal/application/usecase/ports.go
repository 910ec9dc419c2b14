package usecase

import (
	"context"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("coursemarket/usecase")

type PurchaseRepository interface {
	Create(ctx context.Context, p *domain.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error)
	// TransitionStatus reports false when the purchase was no longer in state from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.PurchaseStatus) (bool, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	// AppendEnrollment must be a single conditional write; false means already present.
	AppendEnrollment(ctx context.Context, userID string, courseID uuid.UUID) (bool, error)
	HasEnrollment(ctx context.Context, userID string, courseID uuid.UUID) (bool, error)
	EnrolledCourses(ctx context.Context, userID string) ([]domain.Course, error)
}

type CourseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	// AppendStudent must be a single conditional write; false means already present.
	AppendStudent(ctx context.Context, courseID uuid.UUID, userID string) (bool, error)
	UpsertRating(ctx context.Context, rating *domain.CourseRating) error
	StudentIDs(ctx context.Context, courseID uuid.UUID) ([]string, error)
	Ratings(ctx context.Context, courseID uuid.UUID) ([]domain.CourseRating, error)
}

type ProgressRepository interface {
	AddCompletedLecture(ctx context.Context, userID string, courseID uuid.UUID, lectureID string) (bool, error)
	Get(ctx context.Context, userID string, courseID uuid.UUID) (*domain.CourseProgress, error)
}

// PaymentGateway is the outbound side of the payment provider.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error)
	PurchaseIDForPaymentIntent(ctx context.Context, paymentIntentID string) (uuid.UUID, error)
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
