package risk

import "fmt"

// Tier classifies affordability risk derived from the expense-to-income ratio.
type Tier string

const (
	TierInsufficientData Tier = "insufficient-data"
	TierLow              Tier = "low"
	TierMedium           Tier = "medium"
	TierHigh             Tier = "high"
	TierVeryHigh         Tier = "very-high"
)

// Tier thresholds. The ratio must be strictly greater than the threshold,
// checked from the highest down.
const (
	thresholdVeryHigh = 0.65
	thresholdHigh     = 0.50
	thresholdMedium   = 0.40
)

// HouseholdCosts are the monthly costs shared by all applicants together,
// independent of how many applicants there are.
type HouseholdCosts struct {
	Rent        float64 `json:"rent"`
	PropertyTax float64 `json:"property_tax"`
	LivingCosts float64 `json:"living_costs"`
}

// Validate rejects negative cost inputs.
func (c HouseholdCosts) Validate() error {
	if c.Rent < 0 {
		return fmt.Errorf("rent must not be negative, got %v", c.Rent)
	}
	if c.PropertyTax < 0 {
		return fmt.Errorf("property tax must not be negative, got %v", c.PropertyTax)
	}
	if c.LivingCosts < 0 {
		return fmt.Errorf("living costs must not be negative, got %v", c.LivingCosts)
	}
	return nil
}

// ValidateIncomes rejects negative salary inputs.
func ValidateIncomes(incomes []float64) error {
	for i, income := range incomes {
		if income < 0 {
			return fmt.Errorf("income #%d must not be negative, got %v", i+1, income)
		}
	}
	return nil
}

// Assessment is the derived result of a risk scoring run. All monetary
// figures are raw numbers; formatting is a presentation concern.
type Assessment struct {
	TotalIncome   float64 `json:"total_income"`
	HousingCost   float64 `json:"housing_cost"`
	LivingCosts   float64 `json:"living_costs"`
	TotalExpenses float64 `json:"total_expenses"`

	// ExpenseRatio is only meaningful when HasRatio is true. With zero
	// total income no ratio exists and the tier is insufficient-data.
	ExpenseRatio float64 `json:"expense_ratio"`
	HasRatio     bool    `json:"has_ratio"`

	Tier Tier `json:"tier"`
}

// Score combines applicant incomes with household costs into an expense
// ratio and a discrete risk tier. Pure function; order of incomes does not
// matter. Inputs are assumed validated (non-negative).
func Score(incomes []float64, costs HouseholdCosts) Assessment {
	var totalIncome float64
	for _, income := range incomes {
		totalIncome += income
	}

	housing := costs.Rent + costs.PropertyTax
	expenses := housing + costs.LivingCosts

	if totalIncome == 0 {
		return Assessment{
			HousingCost:   housing,
			LivingCosts:   costs.LivingCosts,
			TotalExpenses: expenses,
			Tier:          TierInsufficientData,
		}
	}

	ratio := expenses / totalIncome

	return Assessment{
		TotalIncome:   totalIncome,
		HousingCost:   housing,
		LivingCosts:   costs.LivingCosts,
		TotalExpenses: expenses,
		ExpenseRatio:  ratio,
		HasRatio:      true,
		Tier:          classify(ratio),
	}
}

func classify(ratio float64) Tier {
	switch {
	case ratio > thresholdVeryHigh:
		return TierVeryHigh
	case ratio > thresholdHigh:
		return TierHigh
	case ratio > thresholdMedium:
		return TierMedium
	default:
		return TierLow
	}
}
