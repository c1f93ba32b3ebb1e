package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/refi-calculator/pkg/format"
	"github.com/iwvelando/refi-calculator/pkg/loans"
	"github.com/iwvelando/refi-calculator/pkg/refinance"
)

// Soft limits that produce warnings rather than errors.
const (
	maxCashOutShare      = 0.5
	maxClosingCostsShare = 0.06
)

// ValidateScenario checks user-supplied scenario input. Hard failures are
// returned as a single joined error; unusual but computable input comes
// back as warnings.
func ValidateScenario(s refinance.Scenario) ([]string, error) {
	var errs []error
	var warnings []string

	if !(s.CurrentBalance > 0) || math.IsInf(s.CurrentBalance, 0) {
		errs = append(errs, fmt.Errorf("current balance must be positive, got %v", s.CurrentBalance))
	}
	if err := ValidateTerm("current remaining term", s.CurrentRemainingYears); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateTerm("new term", s.NewTermYears); err != nil {
		errs = append(errs, err)
	}
	for _, r := range []struct {
		name  string
		value float64
	}{
		{"current rate", s.CurrentRate},
		{"new rate", s.NewRate},
		{"opportunity rate", s.OpportunityRate},
		{"marginal tax rate", s.MarginalTaxRate},
	} {
		if err := ValidateRate(r.name, r.value); err != nil {
			errs = append(errs, err)
		}
	}
	if s.ClosingCosts < 0 {
		errs = append(errs, fmt.Errorf("closing costs cannot be negative, got %v", s.ClosingCosts))
	}
	if s.CashOut < 0 {
		errs = append(errs, fmt.Errorf("cash out cannot be negative, got %v", s.CashOut))
	}
	if s.NPVWindowYears < 1 {
		errs = append(errs, fmt.Errorf("npv window must be at least 1 year, got %d", s.NPVWindowYears))
	}
	if s.ChartHorizonYears < 1 {
		errs = append(errs, fmt.Errorf("chart horizon must be at least 1 year, got %d", s.ChartHorizonYears))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if s.NewRate >= s.CurrentRate {
		warnings = append(warnings, fmt.Sprintf("new rate %s is not below the current rate %s",
			format.Percent(s.NewRate), format.Percent(s.CurrentRate)))
	}
	if s.CashOut > s.CurrentBalance*maxCashOutShare {
		warnings = append(warnings, fmt.Sprintf("cash out %s exceeds half of the current balance %s",
			format.WholeCurrency(s.CashOut), format.WholeCurrency(s.CurrentBalance)))
	}
	if s.ClosingCosts > s.CurrentBalance*maxClosingCostsShare {
		warnings = append(warnings, fmt.Sprintf("closing costs %s exceed 6%% of the current balance",
			format.WholeCurrency(s.ClosingCosts)))
	}
	return warnings, nil
}

// ValidateTerm checks a term in years covers at least one monthly payment.
func ValidateTerm(name string, years float64) error {
	if !(years > 0) || math.IsInf(years, 0) {
		return fmt.Errorf("%s must be positive, got %v years", name, years)
	}
	if n := (loans.LoanParams{TermYears: years}).NumPayments(); n < 1 {
		return fmt.Errorf("%s of %v years rounds to %d monthly payments", name, years, n)
	}
	return nil
}

// ValidateRate checks a fractional rate lies in [0, 1).
func ValidateRate(name string, rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate >= 1 {
		return fmt.Errorf("%s must be between 0%% and 100%%, got %s", name, format.Percent(rate))
	}
	return nil
}

// ValidateSensitivity checks the rate-step sweep settings (percent units).
func ValidateSensitivity(maxReductionPct, stepPct float64) error {
	if stepPct <= 0 {
		return fmt.Errorf("sensitivity step must be positive, got %v%%", stepPct)
	}
	if maxReductionPct < stepPct {
		return fmt.Errorf("sensitivity max reduction %v%% is smaller than the step %v%%", maxReductionPct, stepPct)
	}
	return nil
}

// ValidateHoldingPeriods checks every holding period is at least one year.
func ValidateHoldingPeriods(periods []int) error {
	if len(periods) == 0 {
		return errors.New("at least one holding period is required")
	}
	for _, years := range periods {
		if years < 1 {
			return fmt.Errorf("holding periods must be at least 1 year, got %d", years)
		}
	}
	return nil
}

// ValidateThresholds checks the recommendation policy.
func ValidateThresholds(t refinance.Thresholds) error {
	if t.MarginalBand < 0 {
		return fmt.Errorf("marginal band cannot be negative, got %v", t.MarginalBand)
	}
	if t.StrongBreakevenMultiple < 1 {
		return fmt.Errorf("strong breakeven multiple must be at least 1, got %v", t.StrongBreakevenMultiple)
	}
	return nil
}
