package core

import (
	"slices"
	"time"
)

// RentalStatus is the lifecycle status of a rental.
type RentalStatus = string

const (
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
)

// RentalState is the projected state of one rental.
type RentalState struct {
	RentalID                 RentalIDString
	CycleID                  CycleIDString
	StudentID                StudentIDString
	IssuingGuardID           GuardIDString
	ReturningGuardID         GuardIDString
	CheckoutTokenID          TokenIDString
	RequestedDurationMinutes int
	Location                 string
	ReturnLocation           string
	StartedAt                time.Time
	EndedAt                  time.Time
	Status                   RentalStatus
	ElapsedMinutes           int
	FineAmount               int
	Rating                   int
}

// IsActive reports whether the rental was started and not yet completed.
func (r RentalState) IsActive() bool {
	return r.Status == RentalActive
}

// IsCompleted reports whether the cycle of this rental was checked in.
func (r RentalState) IsCompleted() bool {
	return r.Status == RentalCompleted
}

// IsRated reports whether the student rated this rental.
func (r RentalState) IsRated() bool {
	return r.Rating > 0
}

// ProjectRentals replays the history and returns all rentals found in it, ordered by start time.
func ProjectRentals(history DomainEvents) []RentalState {
	byID := make(map[RentalIDString]*RentalState)
	order := make([]RentalIDString, 0)

	for _, event := range history {
		switch e := event.(type) {
		case CycleCheckedOut:
			if _, exists := byID[e.RentalID]; exists {
				continue
			}

			byID[e.RentalID] = &RentalState{
				RentalID:                 e.RentalID,
				CycleID:                  e.CycleID,
				StudentID:                e.StudentID,
				IssuingGuardID:           e.GuardID,
				CheckoutTokenID:          e.TokenID,
				RequestedDurationMinutes: e.DurationMinutes,
				Location:                 e.Location,
				StartedAt:                e.OccurredAt,
				Status:                   RentalActive,
			}
			order = append(order, e.RentalID)

		case CycleCheckedIn:
			r, exists := byID[e.RentalID]
			if !exists || r.IsCompleted() {
				continue
			}

			r.Status = RentalCompleted
			r.ReturningGuardID = e.GuardID
			r.ReturnLocation = e.ReturnLocation
			r.EndedAt = e.OccurredAt
			r.ElapsedMinutes = e.ElapsedMinutes
			r.FineAmount = e.FineAmount

		case CycleRated:
			if r, exists := byID[e.RentalID]; exists && !r.IsRated() {
				r.Rating = e.Rating
			}
		}
	}

	rentals := make([]RentalState, 0, len(order))
	for _, rentalID := range order {
		rentals = append(rentals, *byID[rentalID])
	}

	slices.SortStableFunc(rentals, func(a, b RentalState) int {
		return a.StartedAt.Compare(b.StartedAt)
	})

	return rentals
}

// FindRental returns the rental with rentalID if the history contains its start.
func FindRental(history DomainEvents, rentalID RentalIDString) (RentalState, bool) {
	for _, rental := range ProjectRentals(history) {
		if rental.RentalID == rentalID {
			return rental, true
		}
	}

	return RentalState{}, false
}

// ActiveRentalOfStudent returns the active rental of the student, if there is one.
func ActiveRentalOfStudent(history DomainEvents, studentID StudentIDString) (RentalState, bool) {
	for _, rental := range ProjectRentals(history) {
		if rental.StudentID == studentID && rental.IsActive() {
			return rental, true
		}
	}

	return RentalState{}, false
}
