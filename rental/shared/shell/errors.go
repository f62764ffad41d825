package shell

import "errors"

var (
	// ErrTemporarilyUnavailable is returned when an operation still conflicts after all retry attempts.
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable, please try again")

	// ErrInvalidCommand is returned when a handler receives a command with missing identities.
	ErrInvalidCommand = errors.New("command is missing required fields")
)
