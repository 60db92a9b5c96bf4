package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ykaplan/cotenant/internal/api/middleware"
	"github.com/ykaplan/cotenant/internal/session"
)

// LedgerHandler exposes the session's processed-bill summary.
type LedgerHandler struct {
	sessions *session.Store
	log      zerolog.Logger
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(sessions *session.Store, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{sessions: sessions, log: log}
}

// List handles GET /api/ledger
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(h.sessions, w, r)
	if !ok {
		return
	}

	records := s.Ledger.Records()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// Summary handles GET /api/ledger/summary
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(h.sessions, w, r)
	if !ok {
		return
	}

	middleware.WriteJSON(w, http.StatusOK, s.Ledger.GroupTotals())
}

// Remove handles POST /api/ledger/remove
func (h *LedgerHandler) Remove(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(h.sessions, w, r)
	if !ok {
		return
	}

	var req struct {
		Indices []int `json:"indices"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.Ledger.RemoveAt(req.Indices)

	h.log.Info().
		Str("session_id", s.ID).
		Ints("indices", req.Indices).
		Msg("Ledger records removed")

	middleware.WriteJSON(w, http.StatusOK, map[string]int{"count": s.Ledger.Len()})
}

// Clear handles POST /api/ledger/clear
func (h *LedgerHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(h.sessions, w, r)
	if !ok {
		return
	}

	s.Ledger.Clear()
	middleware.WriteJSON(w, http.StatusOK, map[string]int{"count": 0})
}
