package split

import (
	"math"
	"testing"
)

func TestSplitTax(t *testing.T) {
	lines := []TaxLine{
		{Name: "Arnona (Municipal Tax)", Amount: 1741.10},
		{Name: "Shira (City Security)", Amount: 78.20},
	}

	got, err := SplitTax(lines)
	if err != nil {
		t.Fatalf("SplitTax() unexpected error: %v", err)
	}

	if len(got.Lines) != 2 {
		t.Fatalf("SplitTax() lines = %d, want 2", len(got.Lines))
	}
	if got.Lines[0].PerApartment != 1741.10/2 {
		t.Errorf("arnona per apartment = %v, want %v", got.Lines[0].PerApartment, 1741.10/2)
	}

	wantTotal := 1741.10 + 78.20
	if math.Abs(got.TotalAmount-wantTotal) > 1e-9 {
		t.Errorf("total = %v, want %v", got.TotalAmount, wantTotal)
	}
	if math.Abs(got.TotalPerApartment*2-wantTotal) > 1e-9 {
		t.Errorf("per-apartment total %v does not reconstruct %v", got.TotalPerApartment, wantTotal)
	}
}

func TestSplitTaxEmpty(t *testing.T) {
	got, err := SplitTax(nil)
	if err != nil {
		t.Fatalf("SplitTax() unexpected error: %v", err)
	}
	if got.TotalAmount != 0 || got.TotalPerApartment != 0 || len(got.Lines) != 0 {
		t.Errorf("SplitTax(nil) = %+v, want empty split", got)
	}
}

func TestSplitTaxNegativeRejected(t *testing.T) {
	_, err := SplitTax([]TaxLine{{Name: "Arnona", Amount: -5}})
	if err == nil {
		t.Error("SplitTax() expected error for negative line amount")
	}
}
