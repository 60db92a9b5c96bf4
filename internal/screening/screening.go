package screening

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ykaplan/cotenant/internal/risk"
	"github.com/ykaplan/cotenant/internal/verify"
)

// Applicant is one prospective co-tenant. Name is only carried through when
// the service is configured to collect names.
type Applicant struct {
	Name     string  `json:"name,omitempty"`
	IDNumber string  `json:"id_number"`
	Salary   float64 `json:"salary"`
}

// ApplicantReport is the per-applicant slice of a screening report.
type ApplicantReport struct {
	Name         string        `json:"name,omitempty"`
	IDNumber     string        `json:"id_number"`
	Salary       float64       `json:"salary"`
	Verification verify.Result `json:"verification"`
}

// Report combines per-applicant verification with the joint risk
// assessment over all incomes.
type Report struct {
	Applicants []ApplicantReport `json:"applicants"`
	Risk       risk.Assessment   `json:"risk"`
}

// Verifier looks up one identifier in the restriction registry.
type Verifier interface {
	Check(ctx context.Context, idNumber string) verify.Result
}

// Service runs a full screening: identity checks per applicant plus the
// joint affordability analysis. A failed lookup never aborts the run; its
// status lands on that applicant only and the risk analysis still completes.
type Service struct {
	verifier     Verifier
	collectNames bool
	log          zerolog.Logger
}

// NewService creates a screening service. collectNames controls whether
// applicant names appear in reports; when false applicants are identified
// by position only.
func NewService(verifier Verifier, collectNames bool, log zerolog.Logger) *Service {
	return &Service{verifier: verifier, collectNames: collectNames, log: log}
}

// Screen validates inputs, verifies each applicant in order and scores the
// household. Returns an error only for invalid input, never for lookup
// failures.
func (s *Service) Screen(ctx context.Context, applicants []Applicant, costs risk.HouseholdCosts) (Report, error) {
	if len(applicants) == 0 {
		return Report{}, fmt.Errorf("at least one applicant is required")
	}
	if err := costs.Validate(); err != nil {
		return Report{}, err
	}

	incomes := make([]float64, 0, len(applicants))
	for i, a := range applicants {
		if a.Salary < 0 {
			return Report{}, fmt.Errorf("applicant #%d: salary must not be negative, got %v", i+1, a.Salary)
		}
		incomes = append(incomes, a.Salary)
	}

	report := Report{Applicants: make([]ApplicantReport, 0, len(applicants))}
	for i, a := range applicants {
		result := s.verifier.Check(ctx, a.IDNumber)
		if result.Status == verify.StatusError || result.Status == verify.StatusUnexpected {
			s.log.Warn().
				Int("applicant", i+1).
				Str("status", string(result.Status)).
				Str("detail", result.Detail).
				Msg("Verification degraded")
		}

		ar := ApplicantReport{
			IDNumber:     a.IDNumber,
			Salary:       a.Salary,
			Verification: result,
		}
		if s.collectNames {
			ar.Name = a.Name
		}
		report.Applicants = append(report.Applicants, ar)
	}

	report.Risk = risk.Score(incomes, costs)

	s.log.Info().
		Int("applicants", len(applicants)).
		Str("tier", string(report.Risk.Tier)).
		Msg("Screening completed")

	return report, nil
}
