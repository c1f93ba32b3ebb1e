// Package report renders a refinance scenario as a printable PDF.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/format"
	"github.com/iwvelando/refi-calculator/pkg/loans"
	"github.com/iwvelando/refi-calculator/pkg/refinance"
)

const (
	marginLeft   = 15.0
	marginTop    = 15.0
	marginRight  = 15.0
	marginBottom = 15.0
	contentWidth = 180.0
)

// Input is everything one report covers.
type Input struct {
	Scenario    refinance.Scenario
	Analysis    refinance.Analysis
	Sensitivity []refinance.SensitivityRow
	Holding     []refinance.HoldingPeriodRow
	Comparison  []loans.ComparisonRow
	GeneratedAt time.Time
}

type pdfReport struct {
	pdf *fpdf.Fpdf
	in  Input
}

// GeneratePDF renders the scenario summary, the sweeps and the yearly
// comparison into a PDF document.
func GeneratePDF(in Input) ([]byte, error) {
	r := &pdfReport{
		pdf: fpdf.New("P", "mm", "A4", ""),
		in:  in,
	}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle("Refinance Analysis", false)

	r.addSummaryPage()
	if len(in.Sensitivity) > 0 || len(in.Holding) > 0 {
		r.addSweepsPage()
	}
	if len(in.Comparison) > 0 {
		r.addComparisonPage()
	}

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pdfReport) addSummaryPage() {
	s := r.in.Scenario
	a := r.in.Analysis

	r.pdf.AddPage()
	r.pdf.SetFont("Arial", "B", 22)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, "Refinance Analysis", "", 1, "C", false, 0, "")
	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(80, 80, 80)
	generated := r.in.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", generated.Format("2 January 2006")), "", 1, "C", false, 0, "")
	r.pdf.Ln(6)

	r.drawSectionHeader("Scenario")
	widths := []float64{90, 90}
	r.drawTableHeader([]string{"Input", "Value"}, widths)
	for _, row := range [][]string{
		{"Current balance", format.WholeCurrency(s.CurrentBalance)},
		{"Current rate", format.Percent(s.CurrentRate)},
		{"Remaining term", fmt.Sprintf("%.1f years", s.CurrentRemainingYears)},
		{"New rate", format.Percent(s.NewRate)},
		{"New term", fmt.Sprintf("%.1f years", s.NewTermYears)},
		{"Closing costs", format.WholeCurrency(s.ClosingCosts)},
		{"Cash out", format.WholeCurrency(s.CashOut)},
		{"Opportunity rate", format.Percent(s.OpportunityRate)},
		{"Marginal tax rate", format.Percent(s.MarginalTaxRate)},
		{"Maintain payment", fmt.Sprintf("%t", s.MaintainPayment)},
	} {
		r.drawTableRow(row, widths, false)
	}
	r.pdf.Ln(6)

	r.drawSectionHeader("Results")
	r.drawTableHeader([]string{"Metric", "Value"}, widths)
	rows := [][]string{
		{"Current payment", format.WholeCurrency(a.CurrentPayment)},
		{"New payment", format.WholeCurrency(a.NewPayment)},
		{"Monthly change", format.SavingsDelta(a.MonthlySavings)},
		{"Simple breakeven", format.Months(a.SimpleBreakevenMonths)},
		{"NPV breakeven", format.Months(a.NPVBreakevenMonths)},
		{"Interest change", format.SignedCurrency(a.InterestDelta)},
		{"After-tax monthly change", format.SavingsDelta(a.AfterTaxMonthlySavings)},
		{"After-tax NPV breakeven", format.Months(a.AfterTaxNPVBreakevenMonths)},
		{"NPV advantage", format.SignedCurrency(a.TotalCostNPVAdvantage)},
		{fmt.Sprintf("%d-year NPV", a.NPVWindowYears), format.SignedCurrency(a.FiveYearNPV)},
	}
	if s.MaintainPayment {
		rows = append(rows,
			[]string{"Accelerated payoff", format.Months(a.AcceleratedMonths)},
			[]string{"Interest saved", format.OptionalCurrency(a.AcceleratedInterestSavings)},
		)
	}
	for i, row := range rows {
		r.drawTableRow(row, widths, i == len(rows)-1)
	}
}

func (r *pdfReport) addSweepsPage() {
	r.pdf.AddPage()
	if len(r.in.Sensitivity) > 0 {
		r.drawSectionHeader("Rate Sensitivity")
		widths := []float64{30, 35, 40, 40, 35}
		r.drawTableHeader([]string{"Rate", "Savings", "Simple BE", "NPV BE", fmt.Sprintf("%d-Yr NPV", r.in.Scenario.NPVWindowYears)}, widths)
		for _, row := range r.in.Sensitivity {
			r.drawTableRow([]string{
				fmt.Sprintf("%.3f%%", row.NewRatePct),
				format.SavingsDelta(row.MonthlySavings),
				format.Months(row.SimpleBreakevenMonths),
				format.Months(row.NPVBreakevenMonths),
				format.SignedCurrency(row.WindowNPV),
			}, widths, false)
		}
		r.pdf.Ln(6)
	}

	if len(r.in.Holding) > 0 {
		r.drawSectionHeader("Holding Period")
		widths := []float64{20, 40, 40, 40, 40}
		r.drawTableHeader([]string{"Years", "Nominal", "NPV", "NPV (A-T)", "Recommendation"}, widths)
		for _, row := range r.in.Holding {
			r.drawTableRow([]string{
				fmt.Sprintf("%d", row.Years),
				format.SignedCurrency(row.NominalSavings),
				format.SignedCurrency(row.NPV),
				format.SignedCurrency(row.NPVAfterTax),
				row.Recommendation,
			}, widths, row.Recommendation == constants.RecommendationStrongYes)
		}
	}
}

func (r *pdfReport) addComparisonPage() {
	r.pdf.AddPage()
	r.drawSectionHeader("Amortization Comparison")
	widths := []float64{12, 28, 28, 28, 28, 28, 28}
	r.drawTableHeader([]string{"Year", "Cur Princ", "Cur Int", "Cur Bal", "New Princ", "New Int", "New Bal"}, widths)
	for _, row := range r.in.Comparison {
		r.drawTableRow([]string{
			fmt.Sprintf("%d", row.Year),
			format.WholeCurrency(row.CurrentPrincipal),
			format.WholeCurrency(row.CurrentInterest),
			format.WholeCurrency(row.CurrentBalance),
			format.WholeCurrency(row.NewPrincipal),
			format.WholeCurrency(row.NewInterest),
			format.WholeCurrency(row.NewBalance),
		}, widths, false)
	}
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 9, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(3)
}

func (r *pdfReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)
	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)
	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}
	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}
