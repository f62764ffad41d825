package core

// FinePolicy calculates the fine of a late return.
//
// The overage is the elapsed time beyond the requested duration and the grace period.
// Each started block of overage minutes costs RatePerBlock, the total is capped at MaxFine if MaxFine is positive.
type FinePolicy struct {
	GraceMinutes int
	BlockMinutes int
	RatePerBlock int
	MaxFine      int
}

// DefaultFinePolicy charges 10 units per started quarter hour of overage, without grace and without cap.
func DefaultFinePolicy() FinePolicy {
	return FinePolicy{
		GraceMinutes: 0,
		BlockMinutes: 15,
		RatePerBlock: 10,
		MaxFine:      0,
	}
}

// Calculate returns the fine for a rental of requestedMinutes which took elapsedMinutes.
// It is zero while elapsedMinutes <= requestedMinutes and monotonically non-decreasing in elapsedMinutes.
func (p FinePolicy) Calculate(requestedMinutes, elapsedMinutes int) int {
	overage := elapsedMinutes - requestedMinutes - max(p.GraceMinutes, 0)
	if overage <= 0 || p.RatePerBlock <= 0 {
		return 0
	}

	blockMinutes := max(p.BlockMinutes, 1)
	blocks := (overage + blockMinutes - 1) / blockMinutes
	fine := blocks * p.RatePerBlock

	if p.MaxFine > 0 && fine > p.MaxFine {
		return p.MaxFine
	}

	return fine
}
