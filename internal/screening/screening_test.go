package screening

import (
	"context"
	"testing"

	"github.com/ykaplan/cotenant/internal/logger"
	"github.com/ykaplan/cotenant/internal/risk"
	"github.com/ykaplan/cotenant/internal/verify"
)

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// mockVerifier is a function-field mock for the registry client.
type mockVerifier struct {
	CheckFunc func(ctx context.Context, idNumber string) verify.Result
	calls     []string
}

func (m *mockVerifier) Check(ctx context.Context, idNumber string) verify.Result {
	m.calls = append(m.calls, idNumber)
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, idNumber)
	}
	return verify.Result{Status: verify.StatusClear}
}

func newService(v Verifier, collectNames bool) *Service {
	return NewService(v, collectNames, logger.NewWithWriter(nopWriter{}))
}

func TestScreen(t *testing.T) {
	mock := &mockVerifier{}
	svc := newService(mock, false)

	applicants := []Applicant{
		{IDNumber: "123456789", Salary: 12000},
		{IDNumber: "987654321", Salary: 8000},
	}
	costs := risk.HouseholdCosts{Rent: 6000, PropertyTax: 1000, LivingCosts: 5000}

	report, err := svc.Screen(context.Background(), applicants, costs)
	if err != nil {
		t.Fatalf("Screen() unexpected error: %v", err)
	}

	if len(report.Applicants) != 2 {
		t.Fatalf("Screen() applicants = %d, want 2", len(report.Applicants))
	}
	if len(mock.calls) != 2 || mock.calls[0] != "123456789" {
		t.Errorf("Screen() verifier calls = %v", mock.calls)
	}
	if report.Risk.TotalIncome != 20000 {
		t.Errorf("Screen() total income = %v, want 20000", report.Risk.TotalIncome)
	}
	// 12000 / 20000 = 0.60 → high
	if report.Risk.Tier != risk.TierHigh {
		t.Errorf("Screen() tier = %v, want %v", report.Risk.Tier, risk.TierHigh)
	}
}

func TestScreenVerificationFailureDoesNotAbort(t *testing.T) {
	mock := &mockVerifier{
		CheckFunc: func(ctx context.Context, idNumber string) verify.Result {
			if idNumber == "111111111" {
				return verify.Result{Status: verify.StatusError, Detail: "timeout"}
			}
			return verify.Result{Status: verify.StatusClear}
		},
	}
	svc := newService(mock, false)

	applicants := []Applicant{
		{IDNumber: "111111111", Salary: 10000},
		{IDNumber: "222222222", Salary: 10000},
	}

	report, err := svc.Screen(context.Background(), applicants, risk.HouseholdCosts{Rent: 5000})
	if err != nil {
		t.Fatalf("Screen() unexpected error: %v", err)
	}

	if report.Applicants[0].Verification.Status != verify.StatusError {
		t.Errorf("first applicant status = %v, want %v", report.Applicants[0].Verification.Status, verify.StatusError)
	}
	if report.Applicants[1].Verification.Status != verify.StatusClear {
		t.Errorf("second applicant status = %v, want %v", report.Applicants[1].Verification.Status, verify.StatusClear)
	}
	if !report.Risk.HasRatio {
		t.Error("risk analysis should still complete")
	}
}

func TestScreenNameFlag(t *testing.T) {
	applicants := []Applicant{{Name: "Dana", IDNumber: "123456789", Salary: 9000}}

	withNames, err := newService(&mockVerifier{}, true).Screen(context.Background(), applicants, risk.HouseholdCosts{})
	if err != nil {
		t.Fatal(err)
	}
	if withNames.Applicants[0].Name != "Dana" {
		t.Errorf("with collectNames name = %q, want Dana", withNames.Applicants[0].Name)
	}

	withoutNames, err := newService(&mockVerifier{}, false).Screen(context.Background(), applicants, risk.HouseholdCosts{})
	if err != nil {
		t.Fatal(err)
	}
	if withoutNames.Applicants[0].Name != "" {
		t.Errorf("without collectNames name = %q, want empty", withoutNames.Applicants[0].Name)
	}
}

func TestScreenInvalidInput(t *testing.T) {
	svc := newService(&mockVerifier{}, false)
	ctx := context.Background()

	if _, err := svc.Screen(ctx, nil, risk.HouseholdCosts{}); err == nil {
		t.Error("Screen() expected error for no applicants")
	}
	if _, err := svc.Screen(ctx, []Applicant{{Salary: -1}}, risk.HouseholdCosts{}); err == nil {
		t.Error("Screen() expected error for negative salary")
	}
	if _, err := svc.Screen(ctx, []Applicant{{Salary: 100}}, risk.HouseholdCosts{Rent: -1}); err == nil {
		t.Error("Screen() expected error for negative rent")
	}
}

func TestScreenZeroIncome(t *testing.T) {
	svc := newService(&mockVerifier{}, false)

	report, err := svc.Screen(context.Background(),
		[]Applicant{{IDNumber: "123456789", Salary: 0}},
		risk.HouseholdCosts{Rent: 6000, PropertyTax: 1000, LivingCosts: 5000})
	if err != nil {
		t.Fatalf("Screen() unexpected error: %v", err)
	}
	if report.Risk.Tier != risk.TierInsufficientData {
		t.Errorf("Screen() tier = %v, want %v", report.Risk.Tier, risk.TierInsufficientData)
	}
}
