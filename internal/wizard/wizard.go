package wizard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ykaplan/cotenant/internal/extract"
	"github.com/ykaplan/cotenant/internal/split"
)

// Step is the explicit state of a bill-splitting workflow.
type Step string

const (
	// StepUpload waits for the bill document and current meter reading.
	StepUpload Step = "upload"
	// StepProcessing waits for the previous meter reading.
	StepProcessing Step = "processing"
	// StepResults has a computed split available.
	StepResults Step = "results"
)

var (
	// ErrWrongStep is returned when an operation is attempted outside the
	// step it belongs to.
	ErrWrongStep = errors.New("operation not allowed in current step")
	// ErrMissingBill is returned when Analyze is called without bill data.
	ErrMissingBill = errors.New("bill document is required")
	// ErrMissingReading is returned when no usable meter reading is given.
	ErrMissingReading = errors.New("meter reading is required")
)

// Wizard drives the linear upload → processing → results workflow for one
// bill kind. Validation failures keep the current step; only valid input
// advances it. Safe for concurrent use since it lives in a shared session.
type Wizard struct {
	kind split.BillKind

	mu              sync.Mutex
	step            Step
	billName        string
	bill            extract.BillData
	currentReading  float64
	previousReading float64
	resultSaved     bool
}

// New creates a Wizard in the upload step.
func New(kind split.BillKind) *Wizard {
	return &Wizard{kind: kind, step: StepUpload}
}

// Kind returns the bill kind this wizard processes.
func (w *Wizard) Kind() split.BillKind { return w.kind }

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// BillName returns the uploaded bill's display name.
func (w *Wizard) BillName() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.billName
}

// Analyze records the extracted bill figures and the current meter reading,
// moving the wizard from upload to processing.
func (w *Wizard) Analyze(billName string, bill extract.BillData, currentReading float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepUpload {
		return fmt.Errorf("%w: analyze requires step %q, currently %q", ErrWrongStep, StepUpload, w.step)
	}
	if billName == "" {
		return ErrMissingBill
	}
	if currentReading <= 0 {
		return ErrMissingReading
	}

	w.billName = billName
	w.bill = bill
	w.currentReading = currentReading
	w.step = StepProcessing
	return nil
}

// SubmitPreviousReading records the previous meter reading and moves the
// wizard from processing to results. A reading at or above the current one
// is rejected and the wizard stays in processing.
func (w *Wizard) SubmitPreviousReading(previous float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepProcessing {
		return fmt.Errorf("%w: previous reading requires step %q, currently %q", ErrWrongStep, StepProcessing, w.step)
	}
	if previous < 0 {
		return fmt.Errorf("previous reading must not be negative, got %v", previous)
	}
	if previous >= w.currentReading {
		return split.ErrReadingOrder
	}

	w.previousReading = previous
	w.step = StepResults
	w.resultSaved = false
	return nil
}

// Result computes the bill split. Only available in the results step.
func (w *Wizard) Result() (split.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepResults {
		return split.Result{}, fmt.Errorf("%w: result requires step %q, currently %q", ErrWrongStep, StepResults, w.step)
	}
	return split.Split(split.BillInput{
		CurrentReading:  w.currentReading,
		PreviousReading: w.previousReading,
		FixedCost:       w.bill.FixedCost,
		TotalUsageCost:  w.bill.TotalUsageCost,
		UnitPrice:       w.bill.UnitPrice,
		VAT:             w.bill.VAT,
	})
}

// MarkSaved flips the saved flag and reports whether this call did the
// flipping. The caller appends the result to the ledger only when true, so
// re-rendering the results step never double-appends.
func (w *Wizard) MarkSaved() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepResults || w.resultSaved {
		return false
	}
	w.resultSaved = true
	return true
}

// Reset returns the wizard to the upload step, clearing all collected data.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepUpload
	w.billName = ""
	w.bill = extract.BillData{}
	w.currentReading = 0
	w.previousReading = 0
	w.resultSaved = false
}
