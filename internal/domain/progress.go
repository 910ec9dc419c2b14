package domain

import (
	"time"

	"github.com/google/uuid"
)

type CompletedLecture struct {
	UserID    string    `gorm:"primaryKey;index"`
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	LectureID string    `gorm:"primaryKey"`
	CreatedAt time.Time
}

// CourseProgress is the read view over completed lectures of one (user, course) pair.
type CourseProgress struct {
	UserID           string    `json:"userId"`
	CourseID         uuid.UUID `json:"courseId"`
	LectureCompleted []string  `json:"lectureCompleted"`
}
