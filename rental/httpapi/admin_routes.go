package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/changecyclestatus"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/imposefine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/registercycle"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/settlefine"
)

type registerCycleRequest struct {
	CycleID string `json:"cycleId" validate:"required"`
}

type changeCycleStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

type imposeFineRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason" validate:"required"`
}

type settleFineRequest struct {
	Amount    int    `json:"amount"`
	Reference string `json:"reference" validate:"required"`
}

func (s *Server) handleRegisterCycle(w http.ResponseWriter, r *http.Request) {
	var req registerCycleRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.handlers.RegisterCycle.Handle(r.Context(), registercycle.BuildCommand(req.CycleID, s.now()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Idempotent {
		status = http.StatusOK
	}

	writeJSON(w, status, commandResponse{Idempotent: result.Idempotent})
}

func (s *Server) handleChangeCycleStatus(w http.ResponseWriter, r *http.Request) {
	var req changeCycleStatusRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	command := changecyclestatus.BuildCommand(chi.URLParam(r, "cycleID"), req.Status, req.Reason, s.now())

	result, err := s.handlers.ChangeCycleStatus.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commandResponse{Idempotent: result.Idempotent})
}

func (s *Server) handleImposeFine(w http.ResponseWriter, r *http.Request) {
	var req imposeFineRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	command := imposefine.BuildCommand(chi.URLParam(r, "studentID"), req.Amount, req.Reason, s.now())

	result, err := s.handlers.ImposeFine.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commandResponse{Idempotent: result.Idempotent})
}

func (s *Server) handleSettleFine(w http.ResponseWriter, r *http.Request) {
	var req settleFineRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	command := settlefine.BuildCommand(chi.URLParam(r, "studentID"), req.Amount, req.Reference, s.now())

	result, err := s.handlers.SettleFine.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commandResponse{Idempotent: result.Idempotent})
}
