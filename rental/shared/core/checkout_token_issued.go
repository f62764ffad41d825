package core

import (
	"time"
)

// CheckoutTokenIssuedEventType is the event type identifier.
const CheckoutTokenIssuedEventType = "CheckoutTokenIssued"

// CheckoutTokenIssued represents when a guard issued a checkout token for a cycle to a student.
type CheckoutTokenIssued struct {
	TokenID         TokenIDString
	CycleID         CycleIDString
	StudentID       StudentIDString
	GuardID         GuardIDString
	DurationMinutes int
	Location        string
	ExpiresAt       time.Time
	OccurredAt      OccurredAtTS
}

// BuildCheckoutTokenIssued creates a new CheckoutTokenIssued event.
func BuildCheckoutTokenIssued(
	tokenID TokenIDString,
	cycleID CycleIDString,
	studentID StudentIDString,
	guardID GuardIDString,
	durationMinutes int,
	location string,
	expiresAt time.Time,
	occurredAt time.Time,
) CheckoutTokenIssued {

	return CheckoutTokenIssued{
		TokenID:         tokenID,
		CycleID:         cycleID,
		StudentID:       studentID,
		GuardID:         guardID,
		DurationMinutes: durationMinutes,
		Location:        location,
		ExpiresAt:       ToOccurredAt(expiresAt),
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CheckoutTokenIssued) IsEventType() string {
	return CheckoutTokenIssuedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CheckoutTokenIssued) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CheckoutTokenIssued) IsErrorEvent() bool {
	return false
}
