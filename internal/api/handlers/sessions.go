package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ykaplan/cotenant/internal/api/middleware"
	"github.com/ykaplan/cotenant/internal/session"
)

// SessionHeader carries the session ID on every stateful request.
const SessionHeader = "X-Session-ID"

// SessionsHandler creates sessions.
type SessionsHandler struct {
	store *session.Store
	log   zerolog.Logger
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(store *session.Store, log zerolog.Logger) *SessionsHandler {
	return &SessionsHandler{store: store, log: log}
}

// Create handles POST /api/sessions
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.store.Create()

	h.log.Info().Str("session_id", s.ID).Msg("Session created")

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{
		"session_id": s.ID,
		"created_at": s.CreatedAt.Format(time.RFC3339),
	})
}

// requireSession resolves the session from the request header, writing the
// error response itself when it cannot.
func requireSession(store *session.Store, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		middleware.WriteError(w, http.StatusBadRequest, SessionHeader+" header is required")
		return nil, false
	}
	s, err := store.Get(id)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return s, true
}
