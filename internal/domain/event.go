package domain

import "time"

type EventType string

const (
	EventPaymentSucceeded EventType = "payment.succeeded"
	EventPaymentFailed    EventType = "payment.failed"
)

// PaymentEvent is a verified notification from the payment provider.
type PaymentEvent struct {
	ID              string
	Type            EventType
	PaymentIntentID string
	FailureMessage  string
	Created         time.Time
}

// PaymentOutcome is what a payment event means for a pending purchase.
type PaymentOutcome int

const (
	OutcomeUnknown PaymentOutcome = iota
	PaymentSucceeded
	PaymentFailed
)

func (t EventType) Outcome() PaymentOutcome {
	switch t {
	case EventPaymentSucceeded:
		return PaymentSucceeded
	case EventPaymentFailed:
		return PaymentFailed
	}
	return OutcomeUnknown
}

func (o PaymentOutcome) String() string {
	switch o {
	case PaymentSucceeded:
		return "succeeded"
	case PaymentFailed:
		return "failed"
	}
	return "unknown"
}

type IdentityEventType string

const (
	IdentityUserCreated IdentityEventType = "user.created"
	IdentityUserUpdated IdentityEventType = "user.updated"
	IdentityUserDeleted IdentityEventType = "user.deleted"
)

// IdentityEvent is a verified user lifecycle notification from the auth provider.
type IdentityEvent struct {
	Type IdentityEventType
	User User
}
