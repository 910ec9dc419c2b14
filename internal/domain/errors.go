package domain

import "errors"

var (
	// ErrAuthentication: bad or missing webhook signature. Never mutate state after it.
	ErrAuthentication = errors.New("webhook authentication failed")
	// ErrNotFound: referenced entity is missing when a request is made.
	ErrNotFound = errors.New("not found")
	// ErrStaleReference: referenced entity vanished before reconciliation. Needs manual review, not a retry.
	ErrStaleReference = errors.New("stale reference")
	// ErrTransientProvider: network or 5xx from the payment provider.
	ErrTransientProvider = errors.New("payment provider unavailable")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrNotEnrolled       = errors.New("user is not enrolled in the course")
)
