package redeemcheckouttoken

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	commandType = "RedeemCheckoutToken"
)

// Command represents the intent of a student to start a rental with a scanned checkout token.
// RentalID is generated by the caller, a retried command keeps it.
type Command struct {
	TokenID    core.TokenIDString
	StudentID  core.StudentIDString
	RentalID   core.RentalIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	tokenID core.TokenIDString,
	studentID core.StudentIDString,
	rentalID core.RentalIDString,
	occurredAt time.Time,
) Command {

	return Command{
		TokenID:    tokenID,
		StudentID:  studentID,
		RentalID:   rentalID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

func (c Command) hasIdentities() bool {
	return c.TokenID != "" && c.StudentID != "" && c.RentalID != ""
}
