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

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// AddCompletedLecture reports false if the lecture was already marked completed.
func (r *ProgressRepository) AddCompletedLecture(ctx context.Context, userID string, courseID uuid.UUID, lectureID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.CompletedLecture{
			UserID:    userID,
			CourseID:  courseID,
			LectureID: lectureID,
			CreatedAt: time.Now(),
		})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "add completed lecture")
	}
	return res.RowsAffected == 1, nil
}

func (r *ProgressRepository) Get(ctx context.Context, userID string, courseID uuid.UUID) (*domain.CourseProgress, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&domain.CompletedLecture{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at asc").
		Pluck("lecture_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "course progress")
	}
	return &domain.CourseProgress{UserID: userID, CourseID: courseID, LectureCompleted: ids}, nil
}
