package ratecycle

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	commandType = "RateCycle"

	minRating = 1
	maxRating = 5
)

// Command represents the intent of a student to rate the cycle of a completed rental.
type Command struct {
	RentalID   core.RentalIDString
	StudentID  core.StudentIDString
	Rating     int
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(rentalID core.RentalIDString, studentID core.StudentIDString, rating int, occurredAt time.Time) Command {
	return Command{
		RentalID:   rentalID,
		StudentID:  studentID,
		Rating:     rating,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

func (c Command) hasIdentities() bool {
	return c.RentalID != "" && c.StudentID != ""
}

func (c Command) hasValidRating() bool {
	return c.Rating >= minRating && c.Rating <= maxRating
}
