package fineledger

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// FineBalance represents the query result with the fine account of a student.
type FineBalance struct {
	StudentID      core.StudentIDString
	Balance        int
	TotalAccrued   int
	TotalSettled   int
	RentedMinutes  int
	Blocked        bool
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r FineBalance) GetSequenceNumber() uint {
	return r.SequenceNumber
}
