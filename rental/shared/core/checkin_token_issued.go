package core

import (
	"time"
)

// CheckinTokenIssuedEventType is the event type identifier.
const CheckinTokenIssuedEventType = "CheckinTokenIssued"

// CheckinTokenIssued represents when a student issued a checkin token for the active rental.
type CheckinTokenIssued struct {
	TokenID    TokenIDString
	RentalID   RentalIDString
	CycleID    CycleIDString
	StudentID  StudentIDString
	GuardID    GuardIDString
	ExpiresAt  time.Time
	OccurredAt OccurredAtTS
}

// BuildCheckinTokenIssued creates a new CheckinTokenIssued event.
func BuildCheckinTokenIssued(
	tokenID TokenIDString,
	rentalID RentalIDString,
	cycleID CycleIDString,
	studentID StudentIDString,
	guardID GuardIDString,
	expiresAt time.Time,
	occurredAt time.Time,
) CheckinTokenIssued {

	return CheckinTokenIssued{
		TokenID:    tokenID,
		RentalID:   rentalID,
		CycleID:    cycleID,
		StudentID:  studentID,
		GuardID:    guardID,
		ExpiresAt:  ToOccurredAt(expiresAt),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CheckinTokenIssued) IsEventType() string {
	return CheckinTokenIssuedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CheckinTokenIssued) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CheckinTokenIssued) IsErrorEvent() bool {
	return false
}
