// Package loans provides fixed-rate loan math and amortization schedules.
package loans

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/mathutil"
)

// Contract violations. Callers validate user input before building a loan.
var (
	ErrInvalidBalance = errors.New("loan balance must be positive")
	ErrInvalidTerm    = errors.New("loan term must be positive")
	ErrInvalidRate    = errors.New("loan rate must be non-negative")
)

// LoanParams holds the terms of a single fixed-rate loan. Rate is an annual
// nominal rate expressed as a fraction (0.065 for 6.5%).
type LoanParams struct {
	Balance   float64 `json:"balance"`
	Rate      float64 `json:"rate"`
	TermYears float64 `json:"termYears"`
}

// NewLoanParams validates and builds a LoanParams.
func NewLoanParams(balance, rate, termYears float64) (LoanParams, error) {
	loan := LoanParams{Balance: balance, Rate: rate, TermYears: termYears}
	if err := loan.Validate(); err != nil {
		return LoanParams{}, err
	}
	return loan, nil
}

// Validate reports whether the loan terms can be amortized.
func (l LoanParams) Validate() error {
	if !(l.Balance > 0) || math.IsInf(l.Balance, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidBalance, l.Balance)
	}
	if !(l.TermYears > 0) || l.NumPayments() < 1 {
		return fmt.Errorf("%w: got %v years", ErrInvalidTerm, l.TermYears)
	}
	if l.Rate < 0 || math.IsNaN(l.Rate) {
		return fmt.Errorf("%w: got %v", ErrInvalidRate, l.Rate)
	}
	return nil
}

// MonthlyRate is the periodic rate applied each month.
func (l LoanParams) MonthlyRate() float64 {
	return mathutil.MonthlyRate(l.Rate)
}

// NumPayments is the number of monthly payments over the full term.
func (l LoanParams) NumPayments() int {
	return int(math.Round(l.TermYears * constants.MonthsPerYear))
}

// MonthlyPayment is the level payment that retires the balance over the term.
// It is never rounded here; rounding happens at display time.
func (l LoanParams) MonthlyPayment() float64 {
	return CalculateMonthlyPayment(l.Balance, l.Rate, l.NumPayments())
}

// TotalInterest is the interest paid over the full term on schedule.
func (l LoanParams) TotalInterest() float64 {
	return l.MonthlyPayment()*float64(l.NumPayments()) - l.Balance
}

// FirstMonthInterest is the interest portion of the first payment.
func (l LoanParams) FirstMonthInterest() float64 {
	return CalculateInterestPayment(l.Balance, l.Rate)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualRate float64, numPayments int) float64 {
	if numPayments <= 0 {
		return 0
	}
	if annualRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(numPayments)
	}

	monthlyRate := mathutil.MonthlyRate(annualRate)
	power := math.Pow(1.00+monthlyRate, float64(numPayments))
	discountFactor := (power - 1.00) / power
	return principal * monthlyRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualRate float64) float64 {
	return remainingPrincipal * mathutil.MonthlyRate(annualRate)
}
