package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/refi-calculator/pkg/refinance"
)

func TestValidateScenario(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*refinance.Scenario)
		expectErr    bool
		errContains  string
		warnContains string
	}{
		{name: "Default scenario", mutate: func(*refinance.Scenario) {}},
		{name: "Zero balance", mutate: func(s *refinance.Scenario) { s.CurrentBalance = 0 }, expectErr: true, errContains: "current balance"},
		{name: "Negative remaining term", mutate: func(s *refinance.Scenario) { s.CurrentRemainingYears = -1 }, expectErr: true, errContains: "remaining term"},
		{name: "Zero new term", mutate: func(s *refinance.Scenario) { s.NewTermYears = 0 }, expectErr: true, errContains: "new term"},
		{name: "Remaining term under half a month", mutate: func(s *refinance.Scenario) { s.CurrentRemainingYears = 0.01 }, expectErr: true, errContains: "rounds to 0 monthly payments"},
		{name: "New term under half a month", mutate: func(s *refinance.Scenario) { s.NewTermYears = 0.04 }, expectErr: true, errContains: "new term of 0.04 years"},
		{name: "Rate given as percent", mutate: func(s *refinance.Scenario) { s.NewRate = 5.75 }, expectErr: true, errContains: "new rate"},
		{name: "Negative tax rate", mutate: func(s *refinance.Scenario) { s.MarginalTaxRate = -0.1 }, expectErr: true, errContains: "marginal tax rate"},
		{name: "Negative closing costs", mutate: func(s *refinance.Scenario) { s.ClosingCosts = -1 }, expectErr: true, errContains: "closing costs"},
		{name: "Negative cash out", mutate: func(s *refinance.Scenario) { s.CashOut = -1 }, expectErr: true, errContains: "cash out"},
		{name: "Zero NPV window", mutate: func(s *refinance.Scenario) { s.NPVWindowYears = 0 }, expectErr: true, errContains: "npv window"},
		{name: "Zero chart horizon", mutate: func(s *refinance.Scenario) { s.ChartHorizonYears = 0 }, expectErr: true, errContains: "chart horizon"},
		{name: "Higher new rate warns", mutate: func(s *refinance.Scenario) { s.NewRate = 0.07 }, warnContains: "not below the current rate"},
		{name: "Large cash out warns", mutate: func(s *refinance.Scenario) { s.CashOut = 250000 }, warnContains: "cash out"},
		{name: "Large closing costs warn", mutate: func(s *refinance.Scenario) { s.ClosingCosts = 30000 }, warnContains: "closing costs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := refinance.DefaultScenario()
			tt.mutate(&s)
			warnings, err := ValidateScenario(s)

			if tt.expectErr {
				if err == nil {
					t.Fatalf("ValidateScenario() expected error containing %q", tt.errContains)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("ValidateScenario() error = %v, expected it to mention %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateScenario() unexpected error = %v", err)
			}
			if tt.warnContains == "" {
				if len(warnings) != 0 {
					t.Errorf("ValidateScenario() unexpected warnings = %v", warnings)
				}
				return
			}
			if len(warnings) != 1 || !strings.Contains(warnings[0], tt.warnContains) {
				t.Errorf("ValidateScenario() warnings = %v, expected one mentioning %q", warnings, tt.warnContains)
			}
		})
	}
}

func TestValidateScenarioJoinsErrors(t *testing.T) {
	s := refinance.DefaultScenario()
	s.CurrentBalance = 0
	s.NewTermYears = 0
	_, err := ValidateScenario(s)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "current balance") || !strings.Contains(err.Error(), "new term") {
		t.Errorf("expected both failures reported, got %v", err)
	}
}

func TestValidateSensitivity(t *testing.T) {
	tests := []struct {
		name         string
		maxReduction float64
		step         float64
		expectErr    bool
	}{
		{"Defaults", 2.5, 0.125, false},
		{"Equal", 0.25, 0.25, false},
		{"Zero step", 2.5, 0, true},
		{"Negative step", 2.5, -0.125, true},
		{"Reduction below step", 0.1, 0.25, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSensitivity(tt.maxReduction, tt.step)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateSensitivity() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestValidateHoldingPeriodsAndThresholds(t *testing.T) {
	if err := ValidateHoldingPeriods([]int{1, 5, 10}); err != nil {
		t.Errorf("unexpected error = %v", err)
	}
	if err := ValidateHoldingPeriods(nil); err == nil {
		t.Error("expected error for no holding periods")
	}
	if err := ValidateHoldingPeriods([]int{5, 0}); err == nil {
		t.Error("expected error for a zero-year holding period")
	}

	if err := ValidateThresholds(refinance.DefaultThresholds()); err != nil {
		t.Errorf("unexpected error = %v", err)
	}
	if err := ValidateThresholds(refinance.Thresholds{MarginalBand: -1, StrongBreakevenMultiple: 2}); err == nil {
		t.Error("expected error for a negative band")
	}
	if err := ValidateThresholds(refinance.Thresholds{MarginalBand: 500, StrongBreakevenMultiple: 0.5}); err == nil {
		t.Error("expected error for a multiple below 1")
	}
}

func TestValidateScenarioAgreesWithAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		termYears float64
		valid     bool
	}{
		{"One payment", 0.05, true},
		{"Rounds to zero", 0.04, false},
		{"Zero", 0, false},
		{"Past the payoff cap", 150, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := refinance.DefaultScenario()
			s.NewTermYears = tt.termYears

			_, validateErr := ValidateScenario(s)
			_, analyzeErr := refinance.Analyze(s)
			if (validateErr == nil) != tt.valid {
				t.Errorf("ValidateScenario() error = %v, expected valid %v", validateErr, tt.valid)
			}
			if (analyzeErr == nil) != tt.valid {
				t.Errorf("Analyze() error = %v, expected valid %v", analyzeErr, tt.valid)
			}
		})
	}
}
