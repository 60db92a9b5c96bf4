package extract

import (
	"context"

	"github.com/ykaplan/cotenant/internal/split"
)

// BillData holds the numeric fields extracted from a utility bill document.
// The calculators consume only these numbers, never the raw document.
type BillData struct {
	FixedCost      float64 `json:"fixed_cost"`
	TotalUsageCost float64 `json:"total_usage_cost"`
	UnitPrice      float64 `json:"unit_price"`
	VAT            float64 `json:"vat"`
}

// BillExtractor turns bill documents into structured figures.
// ExtractBill also returns the current meter reading found on the bill or
// the attached meter photo.
type BillExtractor interface {
	ExtractBill(ctx context.Context, kind split.BillKind, document []byte) (BillData, float64, error)
	ExtractTaxBill(ctx context.Context, document []byte) ([]split.TaxLine, error)
}

// MeterReader turns a meter photo into a numeric reading. unit is the meter
// unit label ("kWh" or "m³").
type MeterReader interface {
	ReadMeter(ctx context.Context, photo []byte, unit string) (float64, error)
}
