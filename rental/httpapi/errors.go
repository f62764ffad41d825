package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
)

var ErrMalformedRequest = errors.New("request body is malformed")

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings is checked in order, the first errors.Is match wins.
var errorMappings = []errorMapping{
	{ErrMissingToken, http.StatusUnauthorized, "Unauthorized"},
	{ErrInvalidToken, http.StatusUnauthorized, "Unauthorized"},
	{ErrMalformedRequest, http.StatusBadRequest, "InvalidRequest"},
	{shell.ErrInvalidCommand, http.StatusBadRequest, "InvalidRequest"},
	{core.ErrInvalidActor, http.StatusForbidden, "InvalidActor"},
	{core.ErrFineLimitExceeded, http.StatusConflict, "FineLimitExceeded"},
	{core.ErrCycleUnavailable, http.StatusConflict, "CycleUnavailable"},
	{core.ErrDuplicateActiveRental, http.StatusConflict, "DuplicateActiveRental"},
	{core.ErrInvalidOrExpiredToken, http.StatusGone, "InvalidOrExpiredToken"},
	{core.ErrTokenNotOwned, http.StatusForbidden, "TokenNotOwned"},
	{core.ErrRentalAlreadyClosed, http.StatusConflict, "RentalAlreadyClosed"},
	{core.ErrNoActiveRental, http.StatusNotFound, "NoActiveRental"},
	{core.ErrInvalidRentalRequest, http.StatusBadRequest, "InvalidRentalRequest"},
	{core.ErrCycleCurrentlyRented, http.StatusConflict, "CycleCurrentlyRented"},
	{core.ErrCycleNotRegistered, http.StatusNotFound, "CycleNotRegistered"},
	{core.ErrCycleDisabled, http.StatusConflict, "CycleDisabled"},
	{core.ErrInvalidCycleStatus, http.StatusBadRequest, "InvalidCycleStatus"},
	{core.ErrInvalidFineAmount, http.StatusBadRequest, "InvalidFineAmount"},
	{core.ErrInvalidRating, http.StatusBadRequest, "InvalidRating"},
	{core.ErrRentalNotFound, http.StatusNotFound, "RentalNotFound"},
	{core.ErrRentalIDTaken, http.StatusConflict, "RentalIDTaken"},
	{core.ErrNotRentalOwner, http.StatusForbidden, "NotRentalOwner"},
	{core.ErrRentalNotCompleted, http.StatusConflict, "RentalNotCompleted"},
	{core.ErrRentalAlreadyRated, http.StatusConflict, "RentalAlreadyRated"},
	{shell.ErrTemporarilyUnavailable, http.StatusServiceUnavailable, "TemporarilyUnavailable"},
}

// statusFor maps an error to its HTTP status and error code. Unknown errors are internal errors.
func statusFor(err error) (int, string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return http.StatusBadRequest, "InvalidRequest"
	}

	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.target) {
			return mapping.status, mapping.code
		}
	}

	return http.StatusInternalServerError, "InternalError"
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		message = "internal error"

		if s.logger != nil {
			s.logger.Error(logMsgRequestFailed, logAttrMethod, r.Method, logAttrPath, r.URL.Path, logAttrError, err.Error())
		}
	}

	writeJSON(w, status, errorResponse{Error: code, Message: message})
}
