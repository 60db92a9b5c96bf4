package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ykaplan/cotenant/internal/api/middleware"
	"github.com/ykaplan/cotenant/internal/risk"
	"github.com/ykaplan/cotenant/internal/screening"
)

// ScreeningHandler runs applicant screenings.
type ScreeningHandler struct {
	svc *screening.Service
	log zerolog.Logger
}

// NewScreeningHandler creates a new screening handler.
func NewScreeningHandler(svc *screening.Service, log zerolog.Logger) *ScreeningHandler {
	return &ScreeningHandler{svc: svc, log: log}
}

type screeningRequest struct {
	Applicants     []screening.Applicant `json:"applicants"`
	HouseholdCosts risk.HouseholdCosts   `json:"household_costs"`
}

// Screen handles POST /api/screening
func (h *ScreeningHandler) Screen(w http.ResponseWriter, r *http.Request) {
	var req screeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.svc.Screen(r.Context(), req.Applicants, req.HouseholdCosts)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, report)
}
