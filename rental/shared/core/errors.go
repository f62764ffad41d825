package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidActor          = errors.New("actor does not exist, is disabled, or lacks the required role")
	ErrFineLimitExceeded     = errors.New("fine balance exceeds the limit")
	ErrCycleUnavailable      = errors.New("cycle is not available")
	ErrDuplicateActiveRental = errors.New("student already has an active rental")
	ErrInvalidOrExpiredToken = errors.New("token is unknown, expired, or already used")
	ErrTokenNotOwned         = errors.New("token was issued to another student")
	ErrRentalAlreadyClosed   = errors.New("rental is already closed")
	ErrNoActiveRental        = errors.New("student has no active rental")
	ErrInvalidRentalRequest  = errors.New("rental request is invalid")
	ErrCycleCurrentlyRented  = errors.New("cycle is currently rented")
	ErrCycleNotRegistered    = errors.New("cycle is not registered")
	ErrCycleDisabled         = errors.New("cycle is disabled")
	ErrInvalidCycleStatus    = errors.New("cycle status can not be set")
	ErrInvalidFineAmount     = errors.New("fine amount is invalid")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
	ErrRentalNotFound        = errors.New("rental does not exist")
	ErrRentalIDTaken         = errors.New("rental id is already used by another rental")
	ErrNotRentalOwner        = errors.New("rental belongs to another student")
	ErrRentalNotCompleted    = errors.New("rental is not completed")
	ErrRentalAlreadyRated    = errors.New("rental was already rated differently")
	ErrActorNotFound         = errors.New("actor not found")
)

// DecisionError wraps a domain error with the type of the failure event, so that callers can still match it with errors.Is.
func DecisionError(eventType string, err error) error {
	return fmt.Errorf("%s: %w", eventType, err)
}
