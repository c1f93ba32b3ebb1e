// Package format renders monetary amounts, rates and month counts for display.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/refi-calculator/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotApplicable is shown in place of an absent optional value.
const NotApplicable = "N/A"

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// Currency returns a currency string with cents and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := printer().Sprintf("%.2f", math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// WholeCurrency rounds to the nearest dollar (e.g., "$1,235"). Negative
// amounts keep the sign after the dollar sign: "$-987".
func WholeCurrency(amount float64) string {
	return printer().Sprintf("$%.0f", amount)
}

// OptionalCurrency is WholeCurrency for a value that may be absent.
func OptionalCurrency(amount *float64) string {
	if amount == nil {
		return NotApplicable
	}
	return WholeCurrency(*amount)
}

// SignedCurrency always carries an explicit sign: "+$1,500", "-$500".
func SignedCurrency(amount float64) string {
	prefix := "+"
	if amount < 0 {
		prefix = "-"
	}
	return prefix + WholeCurrency(math.Abs(amount))
}

// SavingsDelta shows a payment change from the borrower's side: positive
// savings are a payment reduction and render with a minus sign.
func SavingsDelta(savings float64) string {
	prefix := "-"
	if savings < 0 {
		prefix = "+"
	}
	return prefix + WholeCurrency(math.Abs(savings))
}

// Months renders a month count with its year equivalent, e.g. "18 mo (1.5 yr)".
func Months[T int | float64](months *T) string {
	if months == nil {
		return NotApplicable
	}
	value := float64(*months)
	return fmt.Sprintf("%d mo (%.1f yr)", int(value), value/constants.MonthsPerYear)
}

// Percent renders a fractional rate as a percentage, e.g. 0.0575 -> "5.750%".
func Percent(rate float64) string {
	return fmt.Sprintf("%.3f%%", rate*constants.PercentageMultiplier)
}

// Amount renders a plain number with two decimals and thousands separators.
func Amount(value float64) string {
	return printer().Sprintf("%.2f", value)
}
