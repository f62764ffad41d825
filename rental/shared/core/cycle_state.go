package core

// CycleState is the projected state of one cycle.
type CycleState struct {
	CycleID           CycleIDString
	Registered        bool
	Status            CycleStatus
	CurrentRentalID   RentalIDString
	TotalRentCount    int
	RentsSinceService int
	NeedsMaintenance  bool
	MaintenanceReason string
	TotalRatings      int
	ratingSum         int
}

// ProjectCycle replays the history and returns the state of the cycle with cycleID.
// Events of other cycles are ignored, so the history may contain more than one cycle.
func ProjectCycle(history DomainEvents, cycleID CycleIDString) CycleState {
	s := CycleState{CycleID: cycleID}

	for _, event := range history {
		switch e := event.(type) {
		case CycleRegistered:
			if e.CycleID == cycleID && !s.Registered {
				s.Registered = true
				s.Status = CycleAvailable
			}

		case CycleStatusChanged:
			if e.CycleID != cycleID {
				continue
			}

			s.Status = e.Status

			if e.Status == CycleAvailable {
				s.NeedsMaintenance = false
				s.MaintenanceReason = ""
				s.RentsSinceService = 0
			}

		case CycleFlaggedForMaintenance:
			if e.CycleID == cycleID {
				s.NeedsMaintenance = true
				s.MaintenanceReason = e.Reason
			}

		case CycleCheckedOut:
			if e.CycleID == cycleID {
				s.Status = CycleRented
				s.CurrentRentalID = e.RentalID
				s.TotalRentCount++
				s.RentsSinceService++
			}

		case CycleCheckedIn:
			if e.CycleID == cycleID && e.RentalID == s.CurrentRentalID {
				s.Status = CycleAvailable
				s.CurrentRentalID = ""
			}

		case CycleRated:
			if e.CycleID == cycleID {
				s.TotalRatings++
				s.ratingSum += e.Rating
			}
		}
	}

	return s
}

// IsAvailableForCheckout reports whether a new rental may start on this cycle.
func (s CycleState) IsAvailableForCheckout() bool {
	return s.Registered && s.Status == CycleAvailable && !s.NeedsMaintenance
}

// IsRented reports whether an active rental holds this cycle.
func (s CycleState) IsRented() bool {
	return s.Status == CycleRented && s.CurrentRentalID != ""
}

// ReachesHighUsageWithNextRental reports whether the next checkout has to flag the cycle for maintenance.
// The flag is set at most once between two completed services.
func (s CycleState) ReachesHighUsageWithNextRental() bool {
	return !s.NeedsMaintenance && s.RentsSinceService+1 >= HighUsageRentCount
}

// AverageRating returns the mean of all ratings, or 0 without ratings.
func (s CycleState) AverageRating() float64 {
	if s.TotalRatings == 0 {
		return 0
	}

	return float64(s.ratingSum) / float64(s.TotalRatings)
}
