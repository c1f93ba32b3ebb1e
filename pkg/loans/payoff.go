package loans

import (
	"math"

	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/mathutil"
)

// CalculateAcceleratedPayoff simulates paying balance down with a constant
// payment. ok is false when the payment never retires the loan, either
// because it does not cover the first month's interest or because the
// simulation reached constants.MaxPayoffMonths.
func CalculateAcceleratedPayoff(balance, rate, payment float64) (months int, totalInterest float64, ok bool) {
	if balance <= 0 {
		return 0, 0, true
	}
	if payment <= 0 {
		return 0, 0, false
	}

	if rate == 0 {
		return int(math.Floor(balance/payment)) + 1, 0, true
	}

	monthlyRate := mathutil.MonthlyRate(rate)
	if payment <= balance*monthlyRate {
		return 0, 0, false
	}

	remaining := balance
	for remaining > 0 && months < constants.MaxPayoffMonths {
		interest := remaining * monthlyRate
		totalInterest += interest
		remaining -= payment - interest
		months++
	}
	if remaining > 0 {
		return 0, 0, false
	}
	return months, totalInterest, true
}
