package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
)

func Test_StatusFor(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"decision error", core.DecisionError(core.CheckoutTokenRedeemingFailedEventType, core.ErrInvalidOrExpiredToken), http.StatusGone, "InvalidOrExpiredToken"},
		{"fine limit", core.DecisionError(core.CheckoutTokenIssuingFailedEventType, core.ErrFineLimitExceeded), http.StatusConflict, "FineLimitExceeded"},
		{"retries exhausted", errors.Join(shell.ErrTemporarilyUnavailable, eventstore.ErrConcurrencyConflict), http.StatusServiceUnavailable, "TemporarilyUnavailable"},
		{"invalid command", shell.ErrInvalidCommand, http.StatusBadRequest, "InvalidRequest"},
		{"no active rental", core.ErrNoActiveRental, http.StatusNotFound, "NoActiveRental"},
		{"token not owned", core.ErrTokenNotOwned, http.StatusForbidden, "TokenNotOwned"},
		{"rental id taken", core.DecisionError(core.CheckoutTokenRedeemingFailedEventType, core.ErrRentalIDTaken), http.StatusConflict, "RentalIDTaken"},
		{"canceled", context.Canceled, http.StatusInternalServerError, "InternalError"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := statusFor(tc.err)

			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}
