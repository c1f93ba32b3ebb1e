// Package refinance compares a current mortgage against a refinanced one:
// breakeven timing, discounted savings, after-tax effects and sweeps over
// candidate rates and holding periods.
package refinance

import (
	"errors"
	"fmt"

	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/loans"
	"github.com/iwvelando/refi-calculator/pkg/mathutil"
)

// ErrInvalidWindow is returned when an NPV window or chart horizon is not positive.
var ErrInvalidWindow = errors.New("analysis window must be at least one year")

// Scenario is the complete, immutable input of one refinance analysis.
// All rates are fractions (0.065 for 6.5%).
type Scenario struct {
	CurrentBalance        float64 `json:"currentBalance" yaml:"currentBalance"`
	CurrentRate           float64 `json:"currentRate" yaml:"currentRate"`
	CurrentRemainingYears float64 `json:"currentRemainingYears" yaml:"currentRemainingYears"`
	NewRate               float64 `json:"newRate" yaml:"newRate"`
	NewTermYears          float64 `json:"newTermYears" yaml:"newTermYears"`
	ClosingCosts          float64 `json:"closingCosts" yaml:"closingCosts"`
	CashOut               float64 `json:"cashOut" yaml:"cashOut"`
	OpportunityRate       float64 `json:"opportunityRate" yaml:"opportunityRate"`
	MarginalTaxRate       float64 `json:"marginalTaxRate" yaml:"marginalTaxRate"`
	NPVWindowYears        int     `json:"npvWindowYears" yaml:"npvWindowYears"`
	ChartHorizonYears     int     `json:"chartHorizonYears" yaml:"chartHorizonYears"`
	MaintainPayment       bool    `json:"maintainPayment" yaml:"maintainPayment"`
}

// DefaultScenario returns the stock scenario shown on first launch.
func DefaultScenario() Scenario {
	return Scenario{
		CurrentBalance:        constants.DefaultCurrentBalance,
		CurrentRate:           mathutil.PercentToDecimal(constants.DefaultCurrentRatePct),
		CurrentRemainingYears: constants.DefaultCurrentRemainingYears,
		NewRate:               mathutil.PercentToDecimal(constants.DefaultNewRatePct),
		NewTermYears:          constants.DefaultNewTermYears,
		ClosingCosts:          constants.DefaultClosingCosts,
		CashOut:               constants.DefaultCashOut,
		OpportunityRate:       mathutil.PercentToDecimal(constants.DefaultOpportunityRatePct),
		MarginalTaxRate:       mathutil.PercentToDecimal(constants.DefaultMarginalTaxRatePct),
		NPVWindowYears:        constants.DefaultNPVWindowYears,
		ChartHorizonYears:     constants.DefaultChartHorizonYears,
	}
}

// Validate checks the contract the calculations rely on. Business outcomes
// such as a higher new rate are not errors.
func (s Scenario) Validate() error {
	if _, _, err := s.Pair().Loans(); err != nil {
		return err
	}
	if s.NPVWindowYears < 1 {
		return fmt.Errorf("%w: npv window %d", ErrInvalidWindow, s.NPVWindowYears)
	}
	if s.ChartHorizonYears < 1 {
		return fmt.Errorf("%w: chart horizon %d", ErrInvalidWindow, s.ChartHorizonYears)
	}
	return nil
}

// WithNewRate returns a copy of s refinancing at rate.
func (s Scenario) WithNewRate(rate float64) Scenario {
	s.NewRate = rate
	return s
}

// Pair returns the loan pair used by the schedule functions.
func (s Scenario) Pair() loans.PairParams {
	return loans.PairParams{
		CurrentBalance:        s.CurrentBalance,
		CurrentRate:           s.CurrentRate,
		CurrentRemainingYears: s.CurrentRemainingYears,
		NewRate:               s.NewRate,
		NewTermYears:          s.NewTermYears,
		ClosingCosts:          s.ClosingCosts,
		CashOut:               s.CashOut,
		MaintainPayment:       s.MaintainPayment,
	}
}

// NPVWindowMonths is the NPV window in months.
func (s Scenario) NPVWindowMonths() int {
	return s.NPVWindowYears * constants.MonthsPerYear
}

// ChartHorizonMonths is the cumulative-savings horizon in months.
func (s Scenario) ChartHorizonMonths() int {
	return s.ChartHorizonYears * constants.MonthsPerYear
}
