package rentalledger

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// RentalInfo represents one rental of the student.
type RentalInfo struct {
	RentalID                 core.RentalIDString
	CycleID                  core.CycleIDString
	Status                   core.RentalStatus
	IssuingGuardID           core.GuardIDString
	ReturningGuardID         core.GuardIDString
	RequestedDurationMinutes int
	Location                 string
	ReturnLocation           string
	StartedAt                time.Time
	EndedAt                  time.Time
	ElapsedMinutes           int
	FineAmount               int
	Rating                   int
}

// Rentals represents the query result containing all rentals of a student.
type Rentals struct {
	StudentID      core.StudentIDString
	Rentals        []RentalInfo
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r Rentals) GetSequenceNumber() uint {
	return r.SequenceNumber
}
