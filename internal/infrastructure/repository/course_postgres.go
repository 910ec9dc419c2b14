package repository

import (
	"context"
	"time"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if err != nil {
		return nil, notFound(err, "course %s", id)
	}
	return &course, nil
}

// AppendStudent adds the user to the course's enrolled-student set unless already present.
func (r *CourseRepository) AppendStudent(ctx context.Context, courseID uuid.UUID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.CourseStudent{CourseID: courseID, UserID: userID, CreatedAt: time.Now()})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "append student %s/%s", courseID, userID)
	}
	return res.RowsAffected == 1, nil
}

func (r *CourseRepository) StudentIDs(ctx context.Context, courseID uuid.UUID) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.CourseStudent{}).
		Where("course_id = ?", courseID).
		Order("created_at asc").
		Pluck("user_id", &ids).Error
	return ids, errors.Wrap(err, "course students")
}

// UpsertRating keeps one rating per user; a repeat overwrites it.
func (r *CourseRepository) UpsertRating(ctx context.Context, rating *domain.CourseRating) error {
	rating.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(rating).Error
	return errors.Wrap(err, "upsert rating")
}

func (r *CourseRepository) Ratings(ctx context.Context, courseID uuid.UUID) ([]domain.CourseRating, error) {
	var ratings []domain.CourseRating
	err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Find(&ratings).Error
	return ratings, errors.Wrap(err, "course ratings")
}
