package refinance

import (
	"github.com/iwvelando/refi-calculator/pkg/loans"
	"github.com/iwvelando/refi-calculator/pkg/mathutil"
)

// SavingsPoint is one month of the cumulative-savings timeline. Month 0
// carries the closing costs as a day-zero outflow.
type SavingsPoint struct {
	Month   int     `json:"month"`
	Nominal float64 `json:"nominal"`
	NPV     float64 `json:"npv"`
}

// CalculateTotalCostNPV discounts every scheduled payment of a loan at the
// opportunity rate and sums them. With a zero opportunity rate this is the
// undiscounted total of payments.
func CalculateTotalCostNPV(balance, rate, termYears, opportunityRate float64) (float64, error) {
	loan, err := loans.NewLoanParams(balance, rate, termYears)
	if err != nil {
		return 0, err
	}
	payment := loan.MonthlyPayment()
	n := loan.NumPayments()
	if opportunityRate == 0 {
		return payment * float64(n), nil
	}

	monthlyRate := mathutil.MonthlyRate(opportunityRate)
	total := 0.0
	for month := 1; month <= n; month++ {
		total += payment * mathutil.DiscountFactor(monthlyRate, month)
	}
	return total, nil
}

// SimpleBreakeven is the number of months of undiscounted savings needed to
// recoup closing costs, or nil when there are no savings.
func SimpleBreakeven(closingCosts, monthlySavings float64) *float64 {
	if monthlySavings <= 0 {
		return nil
	}
	months := closingCosts / monthlySavings
	return &months
}

// DiscountedSavings is the net present value after months of constant
// savings, net of closing costs paid at month 0.
func DiscountedSavings(monthlySavings, closingCosts, opportunityRate float64, months int) float64 {
	monthlyRate := mathutil.MonthlyRate(opportunityRate)
	total := -closingCosts
	for month := 1; month <= months; month++ {
		total += monthlySavings * mathutil.DiscountFactor(monthlyRate, month)
	}
	return total
}

// NPVBreakeven is the first month at which discounted cumulative savings
// are non-negative, searched up to horizonMonths. It is nil when savings are
// not positive or the horizon is reached first.
func NPVBreakeven(monthlySavings, closingCosts, opportunityRate float64, horizonMonths int) *int {
	if monthlySavings <= 0 {
		return nil
	}
	monthlyRate := mathutil.MonthlyRate(opportunityRate)
	cumulative := -closingCosts
	for month := 1; month <= horizonMonths; month++ {
		cumulative += monthlySavings * mathutil.DiscountFactor(monthlyRate, month)
		if cumulative >= 0 {
			m := month
			return &m
		}
	}
	return nil
}

// CumulativeSavings builds the nominal and discounted savings timeline from
// month 0 through horizonMonths inclusive.
func CumulativeSavings(monthlySavings, closingCosts, opportunityRate float64, horizonMonths int) []SavingsPoint {
	if horizonMonths < 0 {
		horizonMonths = 0
	}
	monthlyRate := mathutil.MonthlyRate(opportunityRate)
	points := make([]SavingsPoint, 0, horizonMonths+1)
	nominal := -closingCosts
	npv := -closingCosts
	points = append(points, SavingsPoint{Month: 0, Nominal: nominal, NPV: npv})
	for month := 1; month <= horizonMonths; month++ {
		nominal += monthlySavings
		npv += monthlySavings * mathutil.DiscountFactor(monthlyRate, month)
		points = append(points, SavingsPoint{Month: month, Nominal: nominal, NPV: npv})
	}
	return points
}
