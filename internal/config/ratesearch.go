package config

import (
	"fmt"

	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/mathutil"
	"github.com/iwvelando/refi-calculator/pkg/refinance"
	"go.uber.org/zap"
)

// RateSearchConfig bounds the break-even rate search. CeilingSpread is in
// percentage points above the current rate.
type RateSearchConfig struct {
	Tolerance     float64 `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int     `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
	CeilingSpread float64 `yaml:"ceilingSpread,omitempty" mapstructure:"ceilingSpread"`
}

// Normalize ensures defaults are applied before validation.
func (r *RateSearchConfig) Normalize() {
	if r == nil {
		return
	}
	if r.Tolerance <= 0 {
		r.Tolerance = constants.DefaultRateSearchTolerance
	}
	if r.MaxIterations <= 0 {
		r.MaxIterations = constants.DefaultRateSearchMaxIterations
	}
	if r.CeilingSpread <= 0 {
		r.CeilingSpread = mathutil.DecimalToPercent(constants.DefaultRateSearchCeilingSpread)
	}
}

// Validate returns an error when the search bounds are unusable.
func (r *RateSearchConfig) Validate() error {
	if r == nil {
		return fmt.Errorf("rate search configuration cannot be nil")
	}
	r.Normalize()
	if r.Tolerance >= mathutil.PercentToDecimal(r.CeilingSpread) {
		return fmt.Errorf("rate search tolerance %g must be smaller than the ceiling spread %.3f%%", r.Tolerance, r.CeilingSpread)
	}
	return nil
}

// NewSearcher builds a rate searcher with these bounds.
func (r RateSearchConfig) NewSearcher(logger *zap.Logger) *refinance.RateSearcher {
	r.Normalize()
	searcher := refinance.NewRateSearcher(logger)
	searcher.Tolerance = r.Tolerance
	searcher.MaxIterations = r.MaxIterations
	searcher.CeilingSpread = mathutil.PercentToDecimal(r.CeilingSpread)
	return searcher
}
