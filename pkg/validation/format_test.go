package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/refi-calculator/pkg/constants"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format    string
		expectErr bool
	}{
		{constants.OutputFormatPretty, false},
		{constants.OutputFormatCSV, false},
		{constants.OutputFormatJSON, false},
		{"", true},
		{"JSON", true},
		{" csv", true},
		{"yaml", true},
		{"pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.expectErr {
				t.Fatalf("ValidateOutputFormat(%q) error = %v, expectErr %v", tt.format, err, tt.expectErr)
			}
			if err == nil {
				return
			}
			for _, supported := range []string{"pretty", "csv", "json"} {
				if !strings.Contains(err.Error(), supported) {
					t.Errorf("error %q does not list %q", err, supported)
				}
			}
		})
	}
}

func TestValidateRate(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		expectErr bool
	}{
		{"Zero", 0, false},
		{"Typical mortgage rate", 0.0575, false},
		{"Just under one", 0.9999, false},
		{"Percent instead of fraction", 6.5, true},
		{"Exactly one", 1, true},
		{"Negative", -0.01, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRate("new rate", tt.rate)
			if (err != nil) != tt.expectErr {
				t.Fatalf("ValidateRate(%v) error = %v, expectErr %v", tt.rate, err, tt.expectErr)
			}
			if err != nil && !strings.HasPrefix(err.Error(), "new rate") {
				t.Errorf("error %q should name the field", err)
			}
		})
	}
}

func TestValidateTerm(t *testing.T) {
	tests := []struct {
		name        string
		years       float64
		errContains string
	}{
		{"Thirty years", 30, ""},
		{"Single payment", 0.05, ""},
		{"Longer than the payoff cap", 150, ""},
		{"Zero", 0, "must be positive"},
		{"Negative", -5, "must be positive"},
		{"Infinite", math.Inf(1), "must be positive"},
		{"NaN", math.NaN(), "must be positive"},
		{"Rounds to no payments", 0.01, "rounds to 0 monthly payments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTerm("new term", tt.years)
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("ValidateTerm(%v) unexpected error = %v", tt.years, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("ValidateTerm(%v) error = %v, expected it to mention %q", tt.years, err, tt.errContains)
			}
		})
	}
}
