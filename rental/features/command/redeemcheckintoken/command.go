package redeemcheckintoken

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	commandType = "RedeemCheckinToken"
)

// Command represents the intent of a guard to accept the return of a cycle.
type Command struct {
	TokenID        core.TokenIDString
	GuardID        core.GuardIDString
	ReturnLocation string
	OccurredAt     core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	tokenID core.TokenIDString,
	guardID core.GuardIDString,
	returnLocation string,
	occurredAt time.Time,
) Command {

	return Command{
		TokenID:        tokenID,
		GuardID:        guardID,
		ReturnLocation: returnLocation,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}

func (c Command) hasIdentities() bool {
	return c.TokenID != "" && c.GuardID != ""
}
