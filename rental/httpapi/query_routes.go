package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/cycleregistry"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/fineledger"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/rentalledger"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

type cycleResponse struct {
	CycleID           string  `json:"cycleId"`
	Status            string  `json:"status"`
	CurrentRentalID   string  `json:"currentRentalId,omitempty"`
	TotalRentCount    int     `json:"totalRentCount"`
	RentsSinceService int     `json:"rentsSinceService"`
	NeedsMaintenance  bool    `json:"needsMaintenance"`
	MaintenanceReason string  `json:"maintenanceReason,omitempty"`
	AverageRating     float64 `json:"averageRating"`
	TotalRatings      int     `json:"totalRatings"`
	SequenceNumber    uint    `json:"sequenceNumber"`
}

type rentalResponse struct {
	RentalID                 string     `json:"rentalId"`
	CycleID                  string     `json:"cycleId"`
	Status                   string     `json:"status"`
	IssuingGuardID           string     `json:"issuingGuardId"`
	ReturningGuardID         string     `json:"returningGuardId,omitempty"`
	RequestedDurationMinutes int        `json:"requestedDurationMinutes"`
	Location                 string     `json:"location"`
	ReturnLocation           string     `json:"returnLocation,omitempty"`
	StartedAt                time.Time  `json:"startedAt"`
	EndedAt                  *time.Time `json:"endedAt,omitempty"`
	ElapsedMinutes           int        `json:"elapsedMinutes"`
	FineAmount               int        `json:"fineAmount"`
	Rating                   int        `json:"rating,omitempty"`
}

type rentalsResponse struct {
	StudentID      string           `json:"studentId"`
	Rentals        []rentalResponse `json:"rentals"`
	Count          int              `json:"count"`
	SequenceNumber uint             `json:"sequenceNumber"`
}

type fineBalanceResponse struct {
	StudentID      string `json:"studentId"`
	Balance        int    `json:"balance"`
	TotalAccrued   int    `json:"totalAccrued"`
	TotalSettled   int    `json:"totalSettled"`
	RentedMinutes  int    `json:"rentedMinutes"`
	Blocked        bool   `json:"blocked"`
	SequenceNumber uint   `json:"sequenceNumber"`
}

func (s *Server) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := s.handlers.GetCycle.Handle(r.Context(), cycleregistry.BuildQuery(chi.URLParam(r, "cycleID")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cycleResponse{
		CycleID:           cycle.CycleID,
		Status:            cycle.Status,
		CurrentRentalID:   cycle.CurrentRentalID,
		TotalRentCount:    cycle.TotalRentCount,
		RentsSinceService: cycle.RentsSinceService,
		NeedsMaintenance:  cycle.NeedsMaintenance,
		MaintenanceReason: cycle.MaintenanceReason,
		AverageRating:     cycle.AverageRating,
		TotalRatings:      cycle.TotalRatings,
		SequenceNumber:    cycle.SequenceNumber,
	})
}

func (s *Server) handleGetRentals(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	if !mayReadStudent(claimsFrom(r.Context()), studentID) {
		s.writeError(w, r, core.ErrInvalidActor)
		return
	}

	rentals, err := s.handlers.GetRentals.Handle(r.Context(), rentalledger.BuildQuery(studentID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	response := rentalsResponse{
		StudentID:      rentals.StudentID,
		Rentals:        make([]rentalResponse, 0, len(rentals.Rentals)),
		Count:          rentals.Count,
		SequenceNumber: rentals.SequenceNumber,
	}

	for _, rental := range rentals.Rentals {
		response.Rentals = append(response.Rentals, toRentalResponse(rental))
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleGetFines(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	if !mayReadStudent(claimsFrom(r.Context()), studentID) {
		s.writeError(w, r, core.ErrInvalidActor)
		return
	}

	balance, err := s.handlers.GetFineLedger.Handle(r.Context(), fineledger.BuildQuery(studentID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fineBalanceResponse{
		StudentID:      balance.StudentID,
		Balance:        balance.Balance,
		TotalAccrued:   balance.TotalAccrued,
		TotalSettled:   balance.TotalSettled,
		RentedMinutes:  balance.RentedMinutes,
		Blocked:        balance.Blocked,
		SequenceNumber: balance.SequenceNumber,
	})
}

func toRentalResponse(rental rentalledger.RentalInfo) rentalResponse {
	response := rentalResponse{
		RentalID:                 rental.RentalID,
		CycleID:                  rental.CycleID,
		Status:                   string(rental.Status),
		IssuingGuardID:           rental.IssuingGuardID,
		ReturningGuardID:         rental.ReturningGuardID,
		RequestedDurationMinutes: rental.RequestedDurationMinutes,
		Location:                 rental.Location,
		ReturnLocation:           rental.ReturnLocation,
		StartedAt:                rental.StartedAt,
		ElapsedMinutes:           rental.ElapsedMinutes,
		FineAmount:               rental.FineAmount,
		Rating:                   rental.Rating,
	}

	if !rental.EndedAt.IsZero() {
		endedAt := rental.EndedAt
		response.EndedAt = &endedAt
	}

	return response
}
