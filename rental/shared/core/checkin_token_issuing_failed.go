package core

import (
	"time"
)

// CheckinTokenIssuingFailedEventType is the event type identifier.
const CheckinTokenIssuingFailedEventType = "CheckinTokenIssuingFailed"

// CheckinTokenIssuingFailed represents when issuing a checkin token was rejected by a business rule.
type CheckinTokenIssuingFailed struct {
	StudentID   StudentIDString
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildCheckinTokenIssuingFailed creates a new CheckinTokenIssuingFailed event.
func BuildCheckinTokenIssuingFailed(
	studentID StudentIDString,
	failureInfo string,
	occurredAt time.Time,
) CheckinTokenIssuingFailed {

	return CheckinTokenIssuingFailed{
		StudentID:   studentID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CheckinTokenIssuingFailed) IsEventType() string {
	return CheckinTokenIssuingFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CheckinTokenIssuingFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a rejected command.
func (e CheckinTokenIssuingFailed) IsErrorEvent() bool {
	return true
}
