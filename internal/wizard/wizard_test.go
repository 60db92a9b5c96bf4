package wizard

import (
	"errors"
	"math"
	"testing"

	"github.com/ykaplan/cotenant/internal/extract"
	"github.com/ykaplan/cotenant/internal/split"
)

var testBill = extract.BillData{FixedCost: 64.75, TotalUsageCost: 1114.84, UnitPrice: 0.5425, VAT: 212.33}

func TestFullWorkflow(t *testing.T) {
	w := New(split.KindElectricity)

	if w.Step() != StepUpload {
		t.Fatalf("new wizard step = %v, want %v", w.Step(), StepUpload)
	}

	if err := w.Analyze("july.pdf", testBill, 9731.1); err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}
	if w.Step() != StepProcessing {
		t.Fatalf("step after analyze = %v, want %v", w.Step(), StepProcessing)
	}

	if err := w.SubmitPreviousReading(8950.5); err != nil {
		t.Fatalf("SubmitPreviousReading() unexpected error: %v", err)
	}
	if w.Step() != StepResults {
		t.Fatalf("step after previous reading = %v, want %v", w.Step(), StepResults)
	}

	result, err := w.Result()
	if err != nil {
		t.Fatalf("Result() unexpected error: %v", err)
	}
	wantTotal := 64.75 + 1114.84 + 212.33
	if math.Abs(result.BillTotal()-wantTotal) > 1e-6 {
		t.Errorf("result total = %v, want %v", result.BillTotal(), wantTotal)
	}
}

func TestGuards(t *testing.T) {
	w := New(split.KindWater)

	// Cannot skip ahead.
	if err := w.SubmitPreviousReading(100); !errors.Is(err, ErrWrongStep) {
		t.Errorf("SubmitPreviousReading() in upload = %v, want ErrWrongStep", err)
	}
	if _, err := w.Result(); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Result() in upload = %v, want ErrWrongStep", err)
	}

	// Analyze validation keeps the upload step.
	if err := w.Analyze("", testBill, 100); !errors.Is(err, ErrMissingBill) {
		t.Errorf("Analyze() without bill = %v, want ErrMissingBill", err)
	}
	if err := w.Analyze("bill.pdf", testBill, 0); !errors.Is(err, ErrMissingReading) {
		t.Errorf("Analyze() without reading = %v, want ErrMissingReading", err)
	}
	if w.Step() != StepUpload {
		t.Errorf("step after rejected analyze = %v, want %v", w.Step(), StepUpload)
	}

	if err := w.Analyze("bill.pdf", testBill, 500); err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	// A second analyze is not allowed once processing.
	if err := w.Analyze("other.pdf", testBill, 600); !errors.Is(err, ErrWrongStep) {
		t.Errorf("repeat Analyze() = %v, want ErrWrongStep", err)
	}

	// Reading-order violations loop back to the same step.
	for _, previous := range []float64{500, 501} {
		if err := w.SubmitPreviousReading(previous); !errors.Is(err, split.ErrReadingOrder) {
			t.Errorf("SubmitPreviousReading(%v) = %v, want ErrReadingOrder", previous, err)
		}
		if w.Step() != StepProcessing {
			t.Errorf("step after rejected reading = %v, want %v", w.Step(), StepProcessing)
		}
	}

	if err := w.SubmitPreviousReading(-1); err == nil {
		t.Error("SubmitPreviousReading(-1) expected error")
	}
}

func TestMarkSaved(t *testing.T) {
	w := New(split.KindElectricity)

	if w.MarkSaved() {
		t.Error("MarkSaved() before results should be false")
	}

	if err := w.Analyze("bill.pdf", testBill, 9731.1); err != nil {
		t.Fatal(err)
	}
	if err := w.SubmitPreviousReading(8950.5); err != nil {
		t.Fatal(err)
	}

	if !w.MarkSaved() {
		t.Error("first MarkSaved() in results should be true")
	}
	if w.MarkSaved() {
		t.Error("second MarkSaved() should be false")
	}
}

func TestReset(t *testing.T) {
	w := New(split.KindElectricity)
	if err := w.Analyze("bill.pdf", testBill, 9731.1); err != nil {
		t.Fatal(err)
	}
	if err := w.SubmitPreviousReading(8950.5); err != nil {
		t.Fatal(err)
	}

	w.Reset()

	if w.Step() != StepUpload {
		t.Errorf("step after reset = %v, want %v", w.Step(), StepUpload)
	}
	if w.BillName() != "" {
		t.Errorf("bill name after reset = %q, want empty", w.BillName())
	}

	// The workflow is reusable after a reset.
	if err := w.Analyze("august.pdf", testBill, 10500); err != nil {
		t.Errorf("Analyze() after reset: %v", err)
	}
}
