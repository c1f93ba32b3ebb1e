// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/refi-calculator/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// IsNegative checks if a value is negative (less than negative tolerance)
func IsNegative(val float64) bool {
	return val < -constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// MonthlyRate converts an annual nominal rate (fraction) to its monthly rate.
func MonthlyRate(annualRate float64) float64 {
	return annualRate / constants.MonthsPerYear
}

// DiscountFactor returns 1/(1+monthlyRate)^month.
func DiscountFactor(monthlyRate float64, month int) float64 {
	if monthlyRate == 0 {
		return 1
	}
	return 1 / math.Pow(1+monthlyRate, float64(month))
}

// PercentToDecimal converts 6.5 into 0.065.
func PercentToDecimal(pct float64) float64 {
	return pct / constants.PercentageMultiplier
}

// DecimalToPercent converts 0.065 into 6.5.
func DecimalToPercent(rate float64) float64 {
	return rate * constants.PercentageMultiplier
}
