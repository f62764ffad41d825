package shell

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const tokenEntropyBytes = 32

// ErrGeneratingTokenFailed is returned when the system random source fails.
var ErrGeneratingTokenFailed = errors.New("generating the token failed")

// NewTokenID returns an opaque token identity: 256 random bits, base64url encoded without padding.
func NewTokenID() (core.TokenIDString, error) {
	raw := make([]byte, tokenEntropyBytes)

	if _, err := rand.Read(raw); err != nil {
		return "", errors.Join(ErrGeneratingTokenFailed, err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
