package usecase

import (
	"context"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// LearnerUseCase serves the signed-in learner: profile, enrollments, progress and ratings.
type LearnerUseCase struct {
	users    UserRepository
	courses  CourseRepository
	progress ProgressRepository
	log      zerolog.Logger
}

func NewLearnerUseCase(ur UserRepository, cr CourseRepository, pr ProgressRepository, log zerolog.Logger) *LearnerUseCase {
	return &LearnerUseCase{users: ur, courses: cr, progress: pr, log: log}
}

func (uc *LearnerUseCase) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

func (uc *LearnerUseCase) EnrolledCourses(ctx context.Context, userID string) ([]domain.Course, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return uc.users.EnrolledCourses(ctx, userID)
}

// CompleteLecture reports false when the lecture had already been completed.
func (uc *LearnerUseCase) CompleteLecture(ctx context.Context, userID string, courseID uuid.UUID, lectureID string) (bool, error) {
	if lectureID == "" {
		return false, errors.Wrap(domain.ErrInvalidInput, "lecture id is required")
	}
	return uc.progress.AddCompletedLecture(ctx, userID, courseID, lectureID)
}

func (uc *LearnerUseCase) CourseProgress(ctx context.Context, userID string, courseID uuid.UUID) (*domain.CourseProgress, error) {
	return uc.progress.Get(ctx, userID, courseID)
}

// CourseDetails returns a published course with its student count and ratings.
// Unpublished courses are reported as not found.
func (uc *LearnerUseCase) CourseDetails(ctx context.Context, courseID uuid.UUID) (*domain.CourseDetails, error) {
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, errors.Wrapf(domain.ErrNotFound, "course %s is not published", courseID)
	}
	students, err := uc.courses.StudentIDs(ctx, courseID)
	if err != nil {
		return nil, err
	}
	ratings, err := uc.courses.Ratings(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return domain.NewCourseDetails(*course, students, ratings), nil
}

// SubmitRating stores the user's rating for a course they are enrolled in; a later
// rating replaces the earlier one.
func (uc *LearnerUseCase) SubmitRating(ctx context.Context, userID string, courseID uuid.UUID, rating int) error {
	if !domain.ValidRating(rating) {
		return domain.ErrInvalidRating
	}
	if _, err := uc.courses.GetByID(ctx, courseID); err != nil {
		return err
	}
	enrolled, err := uc.users.HasEnrollment(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return errors.Wrapf(domain.ErrNotEnrolled, "user %s, course %s", userID, courseID)
	}

	if err := uc.courses.UpsertRating(ctx, &domain.CourseRating{CourseID: courseID, UserID: userID, Rating: rating}); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", userID).Str("course_id", courseID.String()).Int("rating", rating).Msg("rating saved")
	return nil
}
