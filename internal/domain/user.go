package domain

import (
	"time"

	"github.com/google/uuid"
)

// User.ID comes from the identity provider (Clerk), hence a string rather than a uuid.
type User struct {
	ID        string    `gorm:"primaryKey" json:"_id"`
	Email     string    `gorm:"index" json:"email"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserEnrollment is one entry of the user's enrolled-course set.
type UserEnrollment struct {
	UserID    string    `gorm:"primaryKey;index"`
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}
