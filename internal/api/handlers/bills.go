package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ykaplan/cotenant/internal/api/middleware"
	"github.com/ykaplan/cotenant/internal/extract"
	"github.com/ykaplan/cotenant/internal/ledger"
	"github.com/ykaplan/cotenant/internal/session"
	"github.com/ykaplan/cotenant/internal/split"
	"github.com/ykaplan/cotenant/internal/wizard"
)

// CityTaxCategory is the ledger category for city tax bills.
const CityTaxCategory = "City Tax"

const maxUploadBytes = 32 << 20

// BillsHandler drives the bill-splitting wizards and the city tax splitter.
type BillsHandler struct {
	sessions  *session.Store
	extractor extract.BillExtractor
	meter     extract.MeterReader
	log       zerolog.Logger
}

// NewBillsHandler creates a new bills handler.
func NewBillsHandler(sessions *session.Store, extractor extract.BillExtractor, meter extract.MeterReader, log zerolog.Logger) *BillsHandler {
	return &BillsHandler{sessions: sessions, extractor: extractor, meter: meter, log: log}
}

func billKind(r *http.Request) (split.BillKind, bool) {
	kind := split.BillKind(mux.Vars(r)["kind"])
	return kind, kind.Valid()
}

func readFormFile(r *http.Request, field string) (data []byte, filename string, err error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s upload: %w", field, err)
	}
	return data, header.Filename, nil
}

// Analyze handles POST /api/bills/{kind}/analyze
//
// Multipart form: "bill" (required document), plus the current meter
// reading as either a "current_reading" value or a "meter_photo" file.
func (h *BillsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, ok := billKind(r)
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Unknown bill kind")
		return
	}
	s, ok := requireSession(h.sessions, w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	billBytes, billName, err := readFormFile(r, "bill")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Please upload the bill")
		return
	}

	bill, currentReading, err := h.extractor.ExtractBill(ctx, kind, billBytes)
	if err != nil {
		h.log.Error().Err(err).Str("kind", string(kind)).Msg("Bill extraction failed")
		middleware.WriteError(w, http.StatusBadGateway, "Bill analysis failed")
		return
	}

	// A meter photo or a manual value overrides the reading found on the
	// bill; manual wins over both.
	if photo, _, err := readFormFile(r, "meter_photo"); err == nil {
		reading, err := h.meter.ReadMeter(ctx, photo, kind.Unit())
		if err != nil {
			h.log.Error().Err(err).Str("kind", string(kind)).Msg("Meter photo reading failed")
			middleware.WriteError(w, http.StatusBadGateway, "Meter photo analysis failed")
			return
		}
		currentReading = reading
	}
	if manual := r.FormValue("current_reading"); manual != "" {
		reading, err := strconv.ParseFloat(manual, 64)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid current_reading value")
			return
		}
		currentReading = reading
	}

	wiz := s.Wizard(kind)
	if err := wiz.Analyze(billName, bill, currentReading); err != nil {
		writeWizardError(w, err)
		return
	}

	h.log.Info().
		Str("session_id", s.ID).
		Str("kind", string(kind)).
		Str("bill", billName).
		Float64("current_reading", currentReading).
		Msg("Bill analyzed")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"step":            wiz.Step(),
		"bill_name":       billName,
		"bill_data":       bill,
		"current_reading": currentReading,
		"unit":            kind.Unit(),
	})
}

type previousReadingRequest struct {
	PreviousReading *float64 `json:"previous_reading"`
	// MeterPhoto is a base64-encoded photo of the previous meter; used
	// when no manual reading is given.
	MeterPhoto []byte `json:"meter_photo,omitempty"`
}

// PreviousReading handles POST /api/bills/{kind}/previous-reading
//
// Completes the wizard: computes the split and appends it to the session
// ledger exactly once.
func (h *BillsHandler) PreviousReading(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, ok := billKind(r)
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Unknown bill kind")
		return
	}
	s, ok := requireSession(h.sessions, w, r)
	if !ok {
		return
	}

	var req previousReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var previous float64
	switch {
	case req.PreviousReading != nil:
		previous = *req.PreviousReading
	case len(req.MeterPhoto) > 0:
		reading, err := h.meter.ReadMeter(ctx, req.MeterPhoto, kind.Unit())
		if err != nil {
			h.log.Error().Err(err).Str("kind", string(kind)).Msg("Meter photo reading failed")
			middleware.WriteError(w, http.StatusBadGateway, "Meter photo analysis failed")
			return
		}
		previous = reading
	default:
		middleware.WriteError(w, http.StatusBadRequest, "Provide previous reading")
		return
	}

	wiz := s.Wizard(kind)
	if err := wiz.SubmitPreviousReading(previous); err != nil {
		writeWizardError(w, err)
		return
	}

	result, err := wiz.Result()
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	record := ledger.Record{
		CategoryLabel:  fmt.Sprintf("%s (%s)", kind.Label(), wiz.BillName()),
		Consumer1Total: result.Apartment1.Total,
		Consumer2Total: result.Apartment2.Total,
	}
	saved := wiz.MarkSaved()
	if saved {
		s.Ledger.Append(record)
		s.SetLastResult(kind.Label(), record)
	}

	h.log.Info().
		Str("session_id", s.ID).
		Str("kind", string(kind)).
		Bool("saved", saved).
		Msg("Bill split computed")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"step":   wiz.Step(),
		"result": result,
		"record": record,
		"saved":  saved,
	})
}

// Reset handles POST /api/bills/{kind}/reset
func (h *BillsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	kind, ok := billKind(r)
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Unknown bill kind")
		return
	}
	s, ok := requireSession(h.sessions, w, r)
	if !ok {
		return
	}

	s.Wizard(kind).Reset()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"step": wizard.StepUpload})
}

// CityTax handles POST /api/bills/citytax
//
// Multipart form: "bill" (required document). City tax bills have no usage
// component; every line is halved and the total goes straight to the ledger.
func (h *BillsHandler) CityTax(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := requireSession(h.sessions, w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	billBytes, billName, err := readFormFile(r, "bill")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Please upload the city tax bill first")
		return
	}

	lines, err := h.extractor.ExtractTaxBill(ctx, billBytes)
	if err != nil {
		h.log.Error().Err(err).Msg("Tax bill extraction failed")
		middleware.WriteError(w, http.StatusBadGateway, "Tax bill analysis failed")
		return
	}

	taxSplit, err := split.SplitTax(lines)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	record := ledger.Record{
		CategoryLabel:  fmt.Sprintf("%s (%s)", CityTaxCategory, billName),
		Consumer1Total: taxSplit.TotalPerApartment,
		Consumer2Total: taxSplit.TotalPerApartment,
	}
	s.Ledger.Append(record)
	s.SetLastResult(CityTaxCategory, record)

	h.log.Info().
		Str("session_id", s.ID).
		Str("bill", billName).
		Float64("total", taxSplit.TotalAmount).
		Msg("City tax bill split")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"split":  taxSplit,
		"record": record,
	})
}

// Readd handles POST /api/bills/{kind}/readd
//
// Appends the last result for the category to the ledger again.
func (h *BillsHandler) Readd(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(h.sessions, w, r)
	if !ok {
		return
	}

	var category string
	switch vars := mux.Vars(r); vars["kind"] {
	case "citytax":
		category = CityTaxCategory
	default:
		kind := split.BillKind(vars["kind"])
		if !kind.Valid() {
			middleware.WriteError(w, http.StatusNotFound, "Unknown bill kind")
			return
		}
		category = kind.Label()
	}

	record, ok := s.LastResult(category)
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "No previous result for this category")
		return
	}
	s.Ledger.Append(record)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"record": record})
}

func writeWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrWrongStep):
		middleware.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, split.ErrReadingOrder):
		middleware.WriteError(w, http.StatusBadRequest, "Previous reading must be less than current.")
	default:
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	}
}
