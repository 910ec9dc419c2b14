package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed.
func (s PurchaseStatus) IsTerminal() bool {
	return s == PurchaseCompleted || s == PurchaseFailed
}

// CanTransition allows only pending -> completed and pending -> failed.
func (s PurchaseStatus) CanTransition(to PurchaseStatus) bool {
	return s == PurchasePending && to.IsTerminal()
}

// Purchase is one attempt to buy access to a course.
type Purchase struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID       `gorm:"type:uuid;index" json:"courseId"`
	UserID    string          `gorm:"index" json:"userId"`
	Amount    decimal.Decimal `gorm:"type:numeric(10,2)" json:"amount"`
	Status    PurchaseStatus  `gorm:"index;default:'pending'" json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CheckoutRequest is what the payment provider needs to open a hosted checkout page.
type CheckoutRequest struct {
	PurchaseID  uuid.UUID
	CourseTitle string
	Amount      decimal.Decimal
	SuccessURL  string
	CancelURL   string
}

type CheckoutSession struct {
	ID  string
	URL string
}
