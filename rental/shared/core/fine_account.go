package core

// FineAccount is the projected fine balance of one student.
type FineAccount struct {
	StudentID     StudentIDString
	TotalAccrued  int
	TotalSettled  int
	RentedMinutes int
	references    map[string]struct{}
}

// ProjectFineAccount replays the history and returns the fine account of the student.
func ProjectFineAccount(history DomainEvents, studentID StudentIDString) FineAccount {
	a := FineAccount{StudentID: studentID, references: make(map[string]struct{})}

	for _, event := range history {
		switch e := event.(type) {
		case FineAccrued:
			if e.StudentID == studentID {
				a.TotalAccrued += e.Amount
			}

		case FineSettled:
			if e.StudentID == studentID {
				a.TotalSettled += e.Amount
				a.references[e.Reference] = struct{}{}
			}

		case CycleCheckedIn:
			if e.StudentID == studentID {
				a.RentedMinutes += e.ElapsedMinutes
			}
		}
	}

	return a
}

// Balance is the sum of all accrued fines minus the sum of all settlements.
func (a FineAccount) Balance() int {
	return a.TotalAccrued - a.TotalSettled
}

// IsBlocked reports whether the balance is above the limit for new checkouts.
func (a FineAccount) IsBlocked() bool {
	return a.Balance() > MaxFineBalance
}

// HasSettlement reports whether a settlement with this reference was recorded.
func (a FineAccount) HasSettlement(reference string) bool {
	_, found := a.references[reference]

	return found
}
