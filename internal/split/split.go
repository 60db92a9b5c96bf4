package split

import (
	"errors"
	"fmt"
)

// BillKind identifies which metered utility a bill belongs to. The split
// arithmetic is identical for every kind; only the unit label differs.
type BillKind string

const (
	KindElectricity BillKind = "electricity"
	KindWater       BillKind = "water"
)

// Unit returns the meter unit label for display.
func (k BillKind) Unit() string {
	if k == KindWater {
		return "m³"
	}
	return "kWh"
}

// Label returns the display name used as the ledger category prefix.
func (k BillKind) Label() string {
	switch k {
	case KindElectricity:
		return "Electricity"
	case KindWater:
		return "Water"
	default:
		return string(k)
	}
}

// Valid reports whether k is a known bill kind.
func (k BillKind) Valid() bool {
	return k == KindElectricity || k == KindWater
}

// ErrReadingOrder is returned when the previous meter reading is not
// strictly below the current one.
var ErrReadingOrder = errors.New("previous reading must be strictly below current reading")

// BillInput holds the figures extracted from a utility bill plus the two
// meter readings that attribute consumption to the first apartment.
type BillInput struct {
	CurrentReading  float64 `json:"current_reading"`
	PreviousReading float64 `json:"previous_reading"`
	FixedCost       float64 `json:"fixed_cost"`
	TotalUsageCost  float64 `json:"total_usage_cost"`
	UnitPrice       float64 `json:"unit_price"`
	VAT             float64 `json:"vat"`
}

// Validate rejects negative amounts and enforces the reading order
// precondition. Split will not compute on invalid input.
func (in BillInput) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"current reading", in.CurrentReading},
		{"previous reading", in.PreviousReading},
		{"fixed cost", in.FixedCost},
		{"total usage cost", in.TotalUsageCost},
		{"unit price", in.UnitPrice},
		{"vat", in.VAT},
	} {
		if f.value < 0 {
			return fmt.Errorf("%s must not be negative, got %v", f.name, f.value)
		}
	}
	if in.PreviousReading >= in.CurrentReading {
		return ErrReadingOrder
	}
	return nil
}

// Share is one apartment's portion of a split bill.
type Share struct {
	Fixed float64 `json:"fixed"`
	Usage float64 `json:"usage"`
	VAT   float64 `json:"vat"`
	Total float64 `json:"total"`
}

// Result is the derived allocation of a utility bill between two apartments.
// Summing the two shares component-wise reconstructs the original bill
// figures up to floating-point rounding.
type Result struct {
	Consumption      float64 `json:"consumption"`
	CombinedSubtotal float64 `json:"combined_subtotal"`
	Apartment1       Share   `json:"apartment1"`
	Apartment2       Share   `json:"apartment2"`
}

// BillTotal is the full amount of the original bill, fixed + usage + VAT.
func (r Result) BillTotal() float64 {
	return r.Apartment1.Total + r.Apartment2.Total
}

// Split allocates a metered utility bill between two apartments. The first
// apartment pays for the metered delta at the bill's unit price; the second
// absorbs whatever remains of the bill's stated usage total, so any mismatch
// between the metered figure and the stated total lands entirely on
// apartment two. That trusts the bill's total over the recomputation and is
// intentional. Fixed charges are halved; VAT follows each side's share of
// the combined subtotal. A zero combined subtotal yields zero VAT shares.
func Split(in BillInput) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	consumption := in.CurrentReading - in.PreviousReading
	usage1 := consumption * in.UnitPrice
	usage2 := in.TotalUsageCost - usage1
	fixedEach := in.FixedCost / 2

	subtotal1 := fixedEach + usage1
	subtotal2 := fixedEach + usage2
	combined := in.FixedCost + in.TotalUsageCost

	var vat1, vat2 float64
	if combined != 0 {
		vat1 = (subtotal1 / combined) * in.VAT
		vat2 = (subtotal2 / combined) * in.VAT
	}

	return Result{
		Consumption:      consumption,
		CombinedSubtotal: combined,
		Apartment1: Share{
			Fixed: fixedEach,
			Usage: usage1,
			VAT:   vat1,
			Total: subtotal1 + vat1,
		},
		Apartment2: Share{
			Fixed: fixedEach,
			Usage: usage2,
			VAT:   vat2,
			Total: subtotal2 + vat2,
		},
	}, nil
}
