package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

var hundred = decimal.NewFromInt(100)

type Course struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"_id"`
	Title       string          `gorm:"index" json:"courseTitle"`
	Description string          `json:"courseDescription"`
	Thumbnail   string          `json:"courseThumbnail"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2)" json:"coursePrice"`
	Discount    int             `gorm:"default:0" json:"discount"` // percent, 0..100
	IsPublished bool            `json:"isPublished"`
	EducatorID  string          `gorm:"index" json:"educator"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PurchaseAmount is price minus the percentage discount, rounded to cents.
func (c Course) PurchaseAmount() decimal.Decimal {
	discount := c.Price.Mul(decimal.NewFromInt(int64(c.Discount))).Div(hundred)
	return c.Price.Sub(discount).Round(2)
}

// CourseStudent is one entry of the course's enrolled-student set.
type CourseStudent struct {
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	UserID    string    `gorm:"primaryKey"`
	CreatedAt time.Time
}

// CourseRating holds one rating per user; the latest write wins.
type CourseRating struct {
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"courseId"`
	UserID    string    `gorm:"primaryKey" json:"userId"`
	Rating    int       `json:"rating"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// CourseDetails is the public view of a published course.
type CourseDetails struct {
	Course
	EnrolledStudents int             `json:"enrolledStudents"`
	AverageRating    decimal.Decimal `json:"averageRating"`
	Ratings          []CourseRating  `json:"courseRatings"`
}

// NewCourseDetails averages ratings to one decimal place; no ratings gives zero.
func NewCourseDetails(course Course, studentIDs []string, ratings []CourseRating) *CourseDetails {
	d := &CourseDetails{
		Course:           course,
		EnrolledStudents: len(studentIDs),
		AverageRating:    decimal.Zero,
		Ratings:          ratings,
	}
	if d.Ratings == nil {
		d.Ratings = []CourseRating{}
	}
	if len(ratings) > 0 {
		sum := decimal.Zero
		for _, r := range ratings {
			sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
		}
		d.AverageRating = sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(1)
	}
	return d
}
