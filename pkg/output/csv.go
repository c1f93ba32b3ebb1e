package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/refi-calculator/pkg/loans"
	"github.com/iwvelando/refi-calculator/pkg/refinance"
	"github.com/shopspring/decimal"
)

// Table names accepted by WriteTableCSV.
const (
	TableSummary      = "analysis"
	TableSensitivity  = "sensitivity"
	TableHolding      = "holding_period"
	TableAmortization = "amortization"
	TableSchedule     = "schedule"
)

// Column headers of the exported tables.
var (
	SensitivityHeader  = []string{"new_rate", "monthly_savings", "simple_be", "npv_be", "five_yr_npv"}
	HoldingHeader      = []string{"years", "nominal_savings", "npv", "npv_after_tax", "recommendation"}
	AmortizationHeader = []string{
		"year",
		"current_principal", "current_interest", "current_balance",
		"new_principal", "new_interest", "new_balance",
		"principal_diff", "interest_diff", "balance_diff",
	}
	ScheduleHeader = []string{"month", "year", "payment", "principal", "interest", "balance"}
	SummaryHeader  = []string{"metric", "value"}
)

// Tables bundles everything exportable from one scenario run.
type Tables struct {
	Analysis     refinance.Analysis
	Sensitivity  []refinance.SensitivityRow
	Holding      []refinance.HoldingPeriodRow
	Amortization []loans.ComparisonRow
	Schedule     []loans.AmortizationRow
}

// money renders an amount rounded half away from zero to cents.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func optionalMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return money(*v)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// WriteTableCSV writes one named table.
func WriteTableCSV(w io.Writer, table string, t Tables) error {
	switch table {
	case TableSummary:
		return WriteSummaryCSV(w, t.Analysis)
	case TableSensitivity:
		return WriteSensitivityCSV(w, t.Sensitivity)
	case TableHolding:
		return WriteHoldingCSV(w, t.Holding)
	case TableAmortization:
		return WriteAmortizationCSV(w, t.Amortization)
	case TableSchedule:
		return WriteScheduleCSV(w, t.Schedule)
	}
	return fmt.Errorf("unknown table %q", table)
}

// WriteSensitivityCSV writes the rate sensitivity table. Absent breakevens
// are empty cells.
func WriteSensitivityCSV(w io.Writer, rows []refinance.SensitivityRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			strconv.FormatFloat(row.NewRatePct, 'f', 3, 64),
			money(row.MonthlySavings),
			optionalMoney(row.SimpleBreakevenMonths),
			optionalInt(row.NPVBreakevenMonths),
			money(row.WindowNPV),
		})
	}
	return writeCSV(w, SensitivityHeader, records)
}

// WriteHoldingCSV writes the holding-period table.
func WriteHoldingCSV(w io.Writer, rows []refinance.HoldingPeriodRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			strconv.Itoa(row.Years),
			money(row.NominalSavings),
			money(row.NPV),
			money(row.NPVAfterTax),
			row.Recommendation,
		})
	}
	return writeCSV(w, HoldingHeader, records)
}

// WriteAmortizationCSV writes the yearly comparison table.
func WriteAmortizationCSV(w io.Writer, rows []loans.ComparisonRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			strconv.Itoa(row.Year),
			money(row.CurrentPrincipal), money(row.CurrentInterest), money(row.CurrentBalance),
			money(row.NewPrincipal), money(row.NewInterest), money(row.NewBalance),
			money(row.PrincipalDiff), money(row.InterestDiff), money(row.BalanceDiff),
		})
	}
	return writeCSV(w, AmortizationHeader, records)
}

// WriteScheduleCSV writes a monthly amortization schedule.
func WriteScheduleCSV(w io.Writer, rows []loans.AmortizationRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			strconv.Itoa(row.Month),
			strconv.Itoa(row.Year),
			money(row.Payment), money(row.Principal), money(row.Interest), money(row.Balance),
		})
	}
	return writeCSV(w, ScheduleHeader, records)
}

// WriteSummaryCSV writes the analysis as metric/value pairs.
func WriteSummaryCSV(w io.Writer, a refinance.Analysis) error {
	records := [][]string{
		{"current_payment", money(a.CurrentPayment)},
		{"new_payment", money(a.NewPayment)},
		{"monthly_savings", money(a.MonthlySavings)},
		{"simple_breakeven_months", optionalMoney(a.SimpleBreakevenMonths)},
		{"npv_breakeven_months", optionalInt(a.NPVBreakevenMonths)},
		{"current_total_interest", money(a.CurrentTotalInterest)},
		{"new_total_interest", money(a.NewTotalInterest)},
		{"interest_delta", money(a.InterestDelta)},
		{"current_after_tax_payment", money(a.CurrentAfterTaxPayment)},
		{"new_after_tax_payment", money(a.NewAfterTaxPayment)},
		{"after_tax_monthly_savings", money(a.AfterTaxMonthlySavings)},
		{"after_tax_simple_breakeven_months", optionalMoney(a.AfterTaxSimpleBreakevenMonths)},
		{"after_tax_npv_breakeven_months", optionalInt(a.AfterTaxNPVBreakevenMonths)},
		{"after_tax_interest_delta", money(a.AfterTaxInterestDelta)},
		{"new_loan_balance", money(a.NewLoanBalance)},
		{"cash_out_amount", money(a.CashOutAmount)},
		{"accelerated_months", optionalInt(a.AcceleratedMonths)},
		{"accelerated_total_interest", optionalMoney(a.AcceleratedTotalInterest)},
		{"accelerated_time_savings_months", optionalInt(a.AcceleratedTimeSavingsMonths)},
		{"accelerated_interest_savings", optionalMoney(a.AcceleratedInterestSavings)},
		{"current_total_cost_npv", money(a.CurrentTotalCostNPV)},
		{"new_total_cost_npv", money(a.NewTotalCostNPV)},
		{"total_cost_npv_advantage", money(a.TotalCostNPVAdvantage)},
		{"five_year_npv", money(a.FiveYearNPV)},
	}
	return writeCSV(w, SummaryHeader, records)
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}
