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

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user %s", id)
	}
	return &user, nil
}

// Upsert creates the user or refreshes the profile of one seen before.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "name", "image_url", "updated_at"}),
		}).
		Create(user).Error
	return errors.Wrapf(err, "upsert user %s", user.ID)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error
	return errors.Wrapf(err, "delete user %s", id)
}

// AppendEnrollment adds the course to the user's enrolled set unless it is already there.
// The conditional insert is the only guard, so concurrent deliveries cannot add twice.
func (r *UserRepository) AppendEnrollment(ctx context.Context, userID string, courseID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.UserEnrollment{UserID: userID, CourseID: courseID, CreatedAt: time.Now()})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "append enrollment %s/%s", userID, courseID)
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepository) HasEnrollment(ctx context.Context, userID string, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.UserEnrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, errors.Wrap(err, "check enrollment")
}

func (r *UserRepository) EnrolledCourses(ctx context.Context, userID string) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN user_enrollments ON user_enrollments.course_id = courses.id").
		Where("user_enrollments.user_id = ?", userID).
		Order("user_enrollments.created_at desc").
		Find(&courses).Error
	return courses, errors.Wrapf(err, "enrolled courses of %s", userID)
}
