package extract

import (
	"context"
	"time"

	"github.com/ykaplan/cotenant/internal/split"
)

// Simulated is the default extractor. It returns canned figures instead of
// calling an OCR/LLM backend, mirroring the product's simulated analysis.
// Delay, when set, imitates processing time.
type Simulated struct {
	Delay time.Duration
}

// NewSimulated creates a Simulated extractor with no artificial delay.
func NewSimulated() *Simulated {
	return &Simulated{}
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExtractBill returns the canned bill figures and current reading for the
// given bill kind.
func (s *Simulated) ExtractBill(ctx context.Context, kind split.BillKind, document []byte) (BillData, float64, error) {
	if err := s.wait(ctx); err != nil {
		return BillData{}, 0, err
	}
	if kind == split.KindWater {
		return BillData{FixedCost: 0.00, TotalUsageCost: 306.86, UnitPrice: 9.30, VAT: 55.23}, 1.0, nil
	}
	return BillData{FixedCost: 64.75, TotalUsageCost: 1114.84, UnitPrice: 0.5425, VAT: 212.33}, 9731.1, nil
}

// ExtractTaxBill returns the canned city tax line items.
func (s *Simulated) ExtractTaxBill(ctx context.Context, document []byte) ([]split.TaxLine, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return []split.TaxLine{
		{Name: "Arnona (Municipal Tax)", Amount: 1741.10},
		{Name: "Shira (City Security)", Amount: 78.20},
	}, nil
}

// ReadMeter returns the canned meter reading for the given unit.
func (s *Simulated) ReadMeter(ctx context.Context, photo []byte, unit string) (float64, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}
	if unit == "kWh" {
		return 8950.5, nil
	}
	return 415.0, nil
}

var (
	_ BillExtractor = (*Simulated)(nil)
	_ MeterReader   = (*Simulated)(nil)
)
