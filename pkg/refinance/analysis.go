package refinance

import (
	"fmt"

	"github.com/iwvelando/refi-calculator/pkg/loans"
)

// Analysis is the full result of comparing a current loan with its
// refinance. Optional values are nil when not applicable: no savings means
// no breakeven, and accelerated payoff fields are only set when maintaining
// the current payment retires the new loan.
type Analysis struct {
	CurrentPayment float64 `json:"currentPayment"`
	NewPayment     float64 `json:"newPayment"`
	MonthlySavings float64 `json:"monthlySavings"`

	SimpleBreakevenMonths *float64 `json:"simpleBreakevenMonths"`
	NPVBreakevenMonths    *int     `json:"npvBreakevenMonths"`

	CurrentTotalInterest float64        `json:"currentTotalInterest"`
	NewTotalInterest     float64        `json:"newTotalInterest"`
	InterestDelta        float64        `json:"interestDelta"`
	CumulativeSavings    []SavingsPoint `json:"cumulativeSavings"`

	CurrentAfterTaxPayment        float64        `json:"currentAfterTaxPayment"`
	NewAfterTaxPayment            float64        `json:"newAfterTaxPayment"`
	AfterTaxMonthlySavings        float64        `json:"afterTaxMonthlySavings"`
	AfterTaxSimpleBreakevenMonths *float64       `json:"afterTaxSimpleBreakevenMonths"`
	AfterTaxNPVBreakevenMonths    *int           `json:"afterTaxNpvBreakevenMonths"`
	AfterTaxInterestDelta         float64        `json:"afterTaxInterestDelta"`
	AfterTaxCumulativeSavings     []SavingsPoint `json:"afterTaxCumulativeSavings"`

	NewLoanBalance float64 `json:"newLoanBalance"`
	CashOutAmount  float64 `json:"cashOutAmount"`

	AcceleratedMonths            *int     `json:"acceleratedMonths"`
	AcceleratedTotalInterest     *float64 `json:"acceleratedTotalInterest"`
	AcceleratedTimeSavingsMonths *int     `json:"acceleratedTimeSavingsMonths"`
	AcceleratedInterestSavings   *float64 `json:"acceleratedInterestSavings"`

	CurrentTotalCostNPV   float64 `json:"currentTotalCostNpv"`
	NewTotalCostNPV       float64 `json:"newTotalCostNpv"`
	TotalCostNPVAdvantage float64 `json:"totalCostNpvAdvantage"`

	NPVWindowYears    int     `json:"npvWindowYears"`
	FiveYearNPV       float64 `json:"fiveYearNpv"`
	AfterTaxWindowNPV float64 `json:"afterTaxWindowNpv"`
}

// Analyze runs the full comparison for one scenario. It is deterministic
// and returns an error only when the scenario breaks the loan contract.
func Analyze(s Scenario) (Analysis, error) {
	if err := s.Validate(); err != nil {
		return Analysis{}, fmt.Errorf("invalid scenario: %w", err)
	}
	current, refinanced, err := s.Pair().Loans()
	if err != nil {
		return Analysis{}, fmt.Errorf("invalid scenario: %w", err)
	}

	a := Analysis{
		CurrentPayment: current.MonthlyPayment(),
		NewPayment:     refinanced.MonthlyPayment(),
		NewLoanBalance: refinanced.Balance,
		CashOutAmount:  s.CashOut,
		NPVWindowYears: s.NPVWindowYears,
	}
	a.MonthlySavings = a.CurrentPayment - a.NewPayment

	horizon := breakevenHorizon(s, current)

	a.SimpleBreakevenMonths = SimpleBreakeven(s.ClosingCosts, a.MonthlySavings)
	a.NPVBreakevenMonths = NPVBreakeven(a.MonthlySavings, s.ClosingCosts, s.OpportunityRate, horizon)
	a.CumulativeSavings = CumulativeSavings(a.MonthlySavings, s.ClosingCosts, s.OpportunityRate, s.ChartHorizonMonths())

	a.CurrentTotalInterest = current.TotalInterest()
	a.NewTotalInterest = refinanced.TotalInterest()
	a.InterestDelta = a.NewTotalInterest - a.CurrentTotalInterest

	// After-tax payments net out the deduction on the first month's interest.
	a.CurrentAfterTaxPayment = afterTaxPayment(current, s.MarginalTaxRate)
	a.NewAfterTaxPayment = afterTaxPayment(refinanced, s.MarginalTaxRate)
	a.AfterTaxMonthlySavings = a.CurrentAfterTaxPayment - a.NewAfterTaxPayment
	a.AfterTaxSimpleBreakevenMonths = SimpleBreakeven(s.ClosingCosts, a.AfterTaxMonthlySavings)
	a.AfterTaxNPVBreakevenMonths = NPVBreakeven(a.AfterTaxMonthlySavings, s.ClosingCosts, s.OpportunityRate, horizon)
	a.AfterTaxInterestDelta = a.InterestDelta * (1 - s.MarginalTaxRate)
	a.AfterTaxCumulativeSavings = CumulativeSavings(a.AfterTaxMonthlySavings, s.ClosingCosts, s.OpportunityRate, s.ChartHorizonMonths())

	if s.MaintainPayment {
		if months, interest, ok := loans.CalculateAcceleratedPayoff(refinanced.Balance, refinanced.Rate, a.CurrentPayment); ok {
			timeSaved := refinanced.NumPayments() - months
			interestSaved := a.NewTotalInterest - interest
			a.AcceleratedMonths = &months
			a.AcceleratedTotalInterest = &interest
			a.AcceleratedTimeSavingsMonths = &timeSaved
			a.AcceleratedInterestSavings = &interestSaved
		}
	}

	a.CurrentTotalCostNPV, err = CalculateTotalCostNPV(current.Balance, current.Rate, current.TermYears, s.OpportunityRate)
	if err != nil {
		return Analysis{}, fmt.Errorf("current loan cost: %w", err)
	}
	a.NewTotalCostNPV, err = CalculateTotalCostNPV(refinanced.Balance, refinanced.Rate, refinanced.TermYears, s.OpportunityRate)
	if err != nil {
		return Analysis{}, fmt.Errorf("new loan cost: %w", err)
	}
	a.TotalCostNPVAdvantage = a.CurrentTotalCostNPV - a.NewTotalCostNPV - s.ClosingCosts

	a.FiveYearNPV = DiscountedSavings(a.MonthlySavings, s.ClosingCosts, s.OpportunityRate, s.NPVWindowMonths())
	a.AfterTaxWindowNPV = DiscountedSavings(a.AfterTaxMonthlySavings, s.ClosingCosts, s.OpportunityRate, s.NPVWindowMonths())

	return a, nil
}

// breakevenHorizon bounds the NPV breakeven search: the chart horizon, or
// the remaining life of the current loan when that is longer.
func breakevenHorizon(s Scenario, current loans.LoanParams) int {
	return max(s.ChartHorizonMonths(), current.NumPayments())
}

func afterTaxPayment(loan loans.LoanParams, marginalTaxRate float64) float64 {
	return loan.MonthlyPayment() - loan.FirstMonthInterest()*marginalTaxRate
}
