package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ykaplan/cotenant/internal/api/handlers"
	"github.com/ykaplan/cotenant/internal/api/middleware"
	"github.com/ykaplan/cotenant/internal/extract"
	"github.com/ykaplan/cotenant/internal/screening"
	"github.com/ykaplan/cotenant/internal/session"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Sessions  *session.Store
	Screening *screening.Service
	Extractor extract.BillExtractor
	Meter     extract.MeterReader
	Log       zerolog.Logger
}

// NewRouter builds the full HTTP handler: routes plus the middleware chain.
func NewRouter(deps Deps) http.Handler {
	sessionsHandler := handlers.NewSessionsHandler(deps.Sessions, deps.Log)
	screeningHandler := handlers.NewScreeningHandler(deps.Screening, deps.Log)
	billsHandler := handlers.NewBillsHandler(deps.Sessions, deps.Extractor, deps.Meter, deps.Log)
	ledgerHandler := handlers.NewLedgerHandler(deps.Sessions, deps.Log)

	r := mux.NewRouter()

	r.HandleFunc("/api/sessions", sessionsHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/screening", screeningHandler.Screen).Methods(http.MethodPost)

	// The literal citytax route must be registered before the {kind}
	// routes so it wins the match.
	r.HandleFunc("/api/bills/citytax", billsHandler.CityTax).Methods(http.MethodPost)
	r.HandleFunc("/api/bills/{kind}/analyze", billsHandler.Analyze).Methods(http.MethodPost)
	r.HandleFunc("/api/bills/{kind}/previous-reading", billsHandler.PreviousReading).Methods(http.MethodPost)
	r.HandleFunc("/api/bills/{kind}/reset", billsHandler.Reset).Methods(http.MethodPost)
	r.HandleFunc("/api/bills/{kind}/readd", billsHandler.Readd).Methods(http.MethodPost)

	r.HandleFunc("/api/ledger", ledgerHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/api/ledger/summary", ledgerHandler.Summary).Methods(http.MethodGet)
	r.HandleFunc("/api/ledger/remove", ledgerHandler.Remove).Methods(http.MethodPost)
	r.HandleFunc("/api/ledger/clear", ledgerHandler.Clear).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	return middleware.Recovery(deps.Log)(
		middleware.Logger(deps.Log)(
			middleware.RequestID(
				middleware.CORS(r),
			),
		),
	)
}
