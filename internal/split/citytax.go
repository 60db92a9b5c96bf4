package split

import "fmt"

// TaxLine is one named line item on a city tax bill, e.g. municipal tax or
// city security.
type TaxLine struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// TaxLineShare is one tax line with its per-apartment half.
type TaxLineShare struct {
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	PerApartment float64 `json:"per_apartment"`
}

// TaxSplit is the even allocation of a city tax bill between two apartments.
type TaxSplit struct {
	Lines             []TaxLineShare `json:"lines"`
	TotalAmount       float64        `json:"total_amount"`
	TotalPerApartment float64        `json:"total_per_apartment"`
}

// SplitTax halves every line of a city tax bill. Unlike metered utilities
// there is no usage component, so both apartments always pay the same.
func SplitTax(lines []TaxLine) (TaxSplit, error) {
	out := TaxSplit{Lines: make([]TaxLineShare, 0, len(lines))}
	for _, line := range lines {
		if line.Amount < 0 {
			return TaxSplit{}, fmt.Errorf("tax line %q must not be negative, got %v", line.Name, line.Amount)
		}
		out.Lines = append(out.Lines, TaxLineShare{
			Name:         line.Name,
			Amount:       line.Amount,
			PerApartment: line.Amount / 2,
		})
		out.TotalAmount += line.Amount
	}
	out.TotalPerApartment = out.TotalAmount / 2
	return out, nil
}
