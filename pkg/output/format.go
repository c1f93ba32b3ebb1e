// Package output renders refinance results as human-readable tables, CSV
// or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/refi-calculator/pkg/format"
	"github.com/iwvelando/refi-calculator/pkg/loans"
	"github.com/iwvelando/refi-calculator/pkg/optimization"
	"github.com/iwvelando/refi-calculator/pkg/refinance"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyAnalysis writes the summary panel of an analysis.
func PrettyAnalysis(w io.Writer, s refinance.Scenario, a refinance.Analysis) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "--- Refinance analysis: %s -> %s ---\n", format.Percent(s.CurrentRate), format.Percent(s.NewRate))
	for _, line := range []struct {
		label string
		value string
	}{
		{"Current Payment", format.WholeCurrency(a.CurrentPayment)},
		{"New Payment", format.WholeCurrency(a.NewPayment)},
		{"Monthly Change", format.SavingsDelta(a.MonthlySavings)},
		{"New Loan Balance", format.WholeCurrency(a.NewLoanBalance)},
		{"Cash Out", format.WholeCurrency(a.CashOutAmount)},
		{"Simple Breakeven", format.Months(a.SimpleBreakevenMonths)},
		{"NPV Breakeven", format.Months(a.NPVBreakevenMonths)},
		{"Current Total Interest", format.WholeCurrency(a.CurrentTotalInterest)},
		{"New Total Interest", format.WholeCurrency(a.NewTotalInterest)},
		{"Interest Change", format.SignedCurrency(a.InterestDelta)},
		{"After-Tax Current Payment", format.WholeCurrency(a.CurrentAfterTaxPayment)},
		{"After-Tax New Payment", format.WholeCurrency(a.NewAfterTaxPayment)},
		{"After-Tax Monthly Change", format.SavingsDelta(a.AfterTaxMonthlySavings)},
		{"After-Tax Simple Breakeven", format.Months(a.AfterTaxSimpleBreakevenMonths)},
		{"After-Tax NPV Breakeven", format.Months(a.AfterTaxNPVBreakevenMonths)},
		{"After-Tax Interest Change", format.SignedCurrency(a.AfterTaxInterestDelta)},
		{"Current Loan NPV", format.WholeCurrency(a.CurrentTotalCostNPV)},
		{"New Loan NPV", format.WholeCurrency(a.NewTotalCostNPV)},
		{"NPV Advantage", format.SignedCurrency(a.TotalCostNPVAdvantage)},
		{p.Sprintf("%d-Year NPV of Refinancing", a.NPVWindowYears), format.SignedCurrency(a.FiveYearNPV)},
	} {
		_, _ = fmt.Fprintf(w, "%-28s | %s\n", line.label, line.value)
	}
	if s.MaintainPayment {
		_, _ = fmt.Fprintf(w, "%-28s | %s\n", "Accelerated Payoff", format.Months(a.AcceleratedMonths))
		_, _ = fmt.Fprintf(w, "%-28s | %s\n", "Time Saved", format.Months(a.AcceleratedTimeSavingsMonths))
		_, _ = fmt.Fprintf(w, "%-28s | %s\n", "Interest Saved", format.OptionalCurrency(a.AcceleratedInterestSavings))
	}
}

// PrettySensitivity writes the rate sensitivity table.
func PrettySensitivity(w io.Writer, rows []refinance.SensitivityRow, npvWindowYears int) {
	_, _ = fmt.Fprintf(w, "%-8s | %-10s | %-18s | %-18s | %s\n",
		"Rate", "Savings", "Simple Breakeven", "NPV Breakeven", fmt.Sprintf("%d-Yr NPV", npvWindowYears))
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%-8s | %-10s | %-18s | %-18s | %s\n",
			fmt.Sprintf("%.3f%%", row.NewRatePct),
			format.SavingsDelta(row.MonthlySavings),
			format.Months(row.SimpleBreakevenMonths),
			format.Months(row.NPVBreakevenMonths),
			format.SignedCurrency(row.WindowNPV),
		)
	}
}

// PrettyHolding writes the holding-period table.
func PrettyHolding(w io.Writer, rows []refinance.HoldingPeriodRow) {
	_, _ = fmt.Fprintf(w, "%-6s | %-12s | %-12s | %-12s | %s\n", "Years", "Nominal", "NPV", "NPV (A-T)", "Recommendation")
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%-6d | %-12s | %-12s | %-12s | %s\n",
			row.Years,
			format.SignedCurrency(row.NominalSavings),
			format.SignedCurrency(row.NPV),
			format.SignedCurrency(row.NPVAfterTax),
			row.Recommendation,
		)
	}
}

// PrettyComparison writes the year-by-year schedule comparison.
func PrettyComparison(w io.Writer, rows []loans.ComparisonRow) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "%-4s | %-12s | %-12s | %-12s | %-12s | %-12s | %-12s | %s\n",
		"Year", "Cur Princ", "Cur Int", "Cur Bal", "New Princ", "New Int", "New Bal", "Int Diff")
	for _, row := range rows {
		_, _ = p.Fprintf(w, "%-4d | %12.0f | %12.0f | %12.0f | %12.0f | %12.0f | %12.0f | %s\n",
			row.Year,
			row.CurrentPrincipal, row.CurrentInterest, row.CurrentBalance,
			row.NewPrincipal, row.NewInterest, row.NewBalance,
			format.SignedCurrency(row.InterestDiff),
		)
	}
}

// PrettySchedule writes a monthly amortization schedule.
func PrettySchedule(w io.Writer, rows []loans.AmortizationRow) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "%-5s | %-4s | %-10s | %-10s | %-10s | %s\n", "Month", "Year", "Payment", "Principal", "Interest", "Balance")
	for _, row := range rows {
		_, _ = p.Fprintf(w, "%-5d | %-4d | %10.2f | %10.2f | %10.2f | %.2f\n",
			row.Month, row.Year, row.Payment, row.Principal, row.Interest, row.Balance)
	}
}

// PrettyRateSearch writes the break-even rate search summary.
func PrettyRateSearch(w io.Writer, summary optimization.Summary) {
	_, _ = fmt.Fprintf(w, "Quoted rate:     %s\n", summary.OriginalDisplay)
	_, _ = fmt.Fprintf(w, "Break-even rate: %s\n", summary.ValueDisplay)
	_, _ = fmt.Fprintf(w, "Rate headroom:   %+.3f points\n", summary.Headroom*100)
	_, _ = fmt.Fprintf(w, "Window NPV:      %s\n", format.SignedCurrency(summary.Objective))
	_, _ = fmt.Fprintf(w, "Iterations:      %d (converged: %t)\n", summary.Iterations, summary.Converged)
	for _, note := range summary.Notes {
		_, _ = fmt.Fprintf(w, "Note: %s\n", note)
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// ExportFilename names an exported table, e.g. refi_sensitivity_20260102_150405.csv.
func ExportFilename(table, extension string, now time.Time) string {
	return fmt.Sprintf("refi_%s_%s.%s", table, now.Format("20060102_150405"), extension)
}
