package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/ratecycle"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/redeemcheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/redeemcheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

type issueCheckoutTokenRequest struct {
	StudentID       string `json:"studentId" validate:"required"`
	CycleID         string `json:"cycleId" validate:"required"`
	DurationMinutes int    `json:"durationMinutes"`
	Location        string `json:"location"`
}

// redeemCheckoutTokenRequest may carry the rental id, a client retrying a redemption sends the same id again.
type redeemCheckoutTokenRequest struct {
	RentalID string `json:"rentalId" validate:"omitempty,uuid"`
}

type redeemCheckinTokenRequest struct {
	Location string `json:"location" validate:"required"`
}

type rateCycleRequest struct {
	Rating int `json:"rating"`
}

type tokenResponse struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Idempotent bool      `json:"idempotent"`
}

type rentalStartedResponse struct {
	RentalID   string `json:"rentalId"`
	Idempotent bool   `json:"idempotent"`
}

type commandResponse struct {
	Idempotent bool `json:"idempotent"`
}

func (s *Server) handleIssueCheckoutToken(w http.ResponseWriter, r *http.Request) {
	var req issueCheckoutTokenRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tokenID, err := s.newTokenID()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	command := issuecheckouttoken.BuildCommand(
		tokenID,
		claimsFrom(r.Context()).Subject,
		req.StudentID,
		req.CycleID,
		req.DurationMinutes,
		req.Location,
		s.now(),
	)

	result, err := s.handlers.IssueCheckoutToken.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{
		Token:      tokenID,
		ExpiresAt:  core.ExpiresAt(command.OccurredAt),
		Idempotent: result.Idempotent,
	})
}

func (s *Server) handleRedeemCheckoutToken(w http.ResponseWriter, r *http.Request) {
	var req redeemCheckoutTokenRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rentalID := req.RentalID
	if rentalID == "" {
		rentalID = s.newID()
	}

	command := redeemcheckouttoken.BuildCommand(
		chi.URLParam(r, "token"),
		claimsFrom(r.Context()).Subject,
		rentalID,
		s.now(),
	)

	result, err := s.handlers.RedeemCheckoutToken.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rentalStartedResponse{RentalID: rentalID, Idempotent: result.Idempotent})
}

func (s *Server) handleIssueCheckinToken(w http.ResponseWriter, r *http.Request) {
	tokenID, err := s.newTokenID()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	command := issuecheckintoken.BuildCommand(tokenID, claimsFrom(r.Context()).Subject, s.now())

	result, err := s.handlers.IssueCheckinToken.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{
		Token:      tokenID,
		ExpiresAt:  command.ExpiresAt(),
		Idempotent: result.Idempotent,
	})
}

func (s *Server) handleRedeemCheckinToken(w http.ResponseWriter, r *http.Request) {
	var req redeemCheckinTokenRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	command := redeemcheckintoken.BuildCommand(
		chi.URLParam(r, "token"),
		claimsFrom(r.Context()).Subject,
		req.Location,
		s.now(),
	)

	result, err := s.handlers.RedeemCheckinToken.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commandResponse{Idempotent: result.Idempotent})
}

func (s *Server) handleRateCycle(w http.ResponseWriter, r *http.Request) {
	var req rateCycleRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	command := ratecycle.BuildCommand(chi.URLParam(r, "rentalID"), claimsFrom(r.Context()).Subject, req.Rating, s.now())

	result, err := s.handlers.RateCycle.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commandResponse{Idempotent: result.Idempotent})
}
