package core

import (
	"time"
)

// FineAccruedEventType is the event type identifier.
const FineAccruedEventType = "FineAccrued"

// FineAccrued represents when the fine balance of a student grew, by a late return or an imposed fine.
type FineAccrued struct {
	StudentID  StudentIDString
	RentalID   RentalIDString
	Amount     int
	Reason     string
	OccurredAt OccurredAtTS
}

// BuildFineAccrued creates a new FineAccrued event.
func BuildFineAccrued(
	studentID StudentIDString,
	rentalID RentalIDString,
	amount int,
	reason string,
	occurredAt time.Time,
) FineAccrued {

	return FineAccrued{
		StudentID:  studentID,
		RentalID:   rentalID,
		Amount:     amount,
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e FineAccrued) IsEventType() string {
	return FineAccruedEventType
}

// HasOccurredAt returns when this event occurred.
func (e FineAccrued) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e FineAccrued) IsErrorEvent() bool {
	return false
}
