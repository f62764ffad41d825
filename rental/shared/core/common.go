package core

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// CycleIDString is the unique number of a physical cycle.
type CycleIDString = string

// StudentIDString identifies an actor with the student role.
type StudentIDString = string

// GuardIDString identifies an actor with the guard role.
type GuardIDString = string

// RentalIDString is the UUID of a rental.
type RentalIDString = string

// TokenIDString is an opaque, random token identity.
type TokenIDString = string

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

const (
	// TokenLifetime is how long an issued token can be redeemed.
	TokenLifetime = 30 * time.Second

	// MaxFineBalance is the fine balance up to which a student may still check out a cycle.
	MaxFineBalance = 500

	// HighUsageRentCount is the number of rentals since the last service after which a cycle is flagged for maintenance.
	HighUsageRentCount = 50

	// MaintenanceReasonHighUsage is the maintenance reason of a cycle flagged for high usage.
	MaintenanceReasonHighUsage = "high_usage"

	// FineReasonLateReturn is the reason of fines accrued at checkin.
	FineReasonLateReturn = "late_return"
)

// Payload field names, used in event filters and as lock keys of the event store.
const (
	FieldCycleID   = "CycleID"
	FieldStudentID = "StudentID"
	FieldRentalID  = "RentalID"
	FieldTokenID   = "TokenID"
)

// IdentityFields returns the payload fields that identify the entities of this domain.
// Appends only need to be serialized on these, so they are configured as the lock key fields of the engines.
func IdentityFields() []string {
	return []string{FieldCycleID, FieldStudentID, FieldRentalID, FieldTokenID}
}

// ExpiresAt returns the end of the validity of a token issued at issuedAt.
func ExpiresAt(issuedAt time.Time) time.Time {
	return ToOccurredAt(issuedAt.Add(TokenLifetime))
}

// ElapsedMinutes returns the whole minutes between from and to, rounded down.
func ElapsedMinutes(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}

	return int(to.Sub(from) / time.Minute)
}
