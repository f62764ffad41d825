package core

import (
	"time"
)

// CheckoutTokenIssuingFailedEventType is the event type identifier.
const CheckoutTokenIssuingFailedEventType = "CheckoutTokenIssuingFailed"

// CheckoutTokenIssuingFailed represents when issuing a checkout token was rejected by a business rule.
type CheckoutTokenIssuingFailed struct {
	CycleID     CycleIDString
	StudentID   StudentIDString
	GuardID     GuardIDString
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildCheckoutTokenIssuingFailed creates a new CheckoutTokenIssuingFailed event.
func BuildCheckoutTokenIssuingFailed(
	cycleID CycleIDString,
	studentID StudentIDString,
	guardID GuardIDString,
	failureInfo string,
	occurredAt time.Time,
) CheckoutTokenIssuingFailed {

	return CheckoutTokenIssuingFailed{
		CycleID:     cycleID,
		StudentID:   studentID,
		GuardID:     guardID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CheckoutTokenIssuingFailed) IsEventType() string {
	return CheckoutTokenIssuingFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CheckoutTokenIssuingFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a rejected command.
func (e CheckoutTokenIssuingFailed) IsErrorEvent() bool {
	return true
}
