package loans

import (
	"fmt"

	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// AmortizationRow is one monthly schedule entry.
type AmortizationRow struct {
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// YearlyRow aggregates the monthly rows of one loan year.
type YearlyRow struct {
	Year      int     `json:"year"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// ComparisonRow lines up one year of the current and refinanced loans.
// Diff fields are always new minus current.
type ComparisonRow struct {
	Year             int     `json:"year"`
	CurrentPrincipal float64 `json:"currentPrincipal"`
	CurrentInterest  float64 `json:"currentInterest"`
	CurrentBalance   float64 `json:"currentBalance"`
	NewPrincipal     float64 `json:"newPrincipal"`
	NewInterest      float64 `json:"newInterest"`
	NewBalance       float64 `json:"newBalance"`
	PrincipalDiff    float64 `json:"principalDiff"`
	InterestDiff     float64 `json:"interestDiff"`
	BalanceDiff      float64 `json:"balanceDiff"`
}

// PairParams describes a current loan and the loan that would replace it.
// Rates are fractions.
type PairParams struct {
	CurrentBalance        float64
	CurrentRate           float64
	CurrentRemainingYears float64
	NewRate               float64
	NewTermYears          float64
	ClosingCosts          float64
	CashOut               float64
	MaintainPayment       bool
}

// NewBalance is the refinanced principal: the payoff plus rolled-in
// closing costs plus any cash taken out.
func (p PairParams) NewBalance() float64 {
	return p.CurrentBalance + p.ClosingCosts + p.CashOut
}

// Loans builds and validates both loans.
func (p PairParams) Loans() (current LoanParams, refinanced LoanParams, err error) {
	current, err = NewLoanParams(p.CurrentBalance, p.CurrentRate, p.CurrentRemainingYears)
	if err != nil {
		return LoanParams{}, LoanParams{}, fmt.Errorf("current loan: %w", err)
	}
	refinanced, err = NewLoanParams(p.NewBalance(), p.NewRate, p.NewTermYears)
	if err != nil {
		return LoanParams{}, LoanParams{}, fmt.Errorf("new loan: %w", err)
	}
	return current, refinanced, nil
}

// ScheduleGenerator produces amortization schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule builds the monthly schedule of loan with an optional
// extra principal amount added to every payment.
func GenerateSchedule(loan LoanParams, extraPayment float64) []AmortizationRow {
	return NewScheduleGenerator(nil).Generate(loan, extraPayment)
}

// Generate builds the monthly schedule of loan. The final row is clamped so
// the balance lands on exactly zero and the last payment only covers what is
// owed.
func (g *ScheduleGenerator) Generate(loan LoanParams, extraPayment float64) []AmortizationRow {
	if extraPayment < 0 {
		extraPayment = 0
	}
	basePayment := loan.MonthlyPayment()
	payment := basePayment + extraPayment
	monthlyRate := loan.MonthlyRate()
	numPayments := loan.NumPayments()

	// The payoff cap only bounds runs past the scheduled term.
	maxMonths := max(numPayments, constants.MaxPayoffMonths)

	rows := make([]AmortizationRow, 0, numPayments)
	balance := loan.Balance
	for month := 1; balance > 0 && month <= maxMonths; month++ {
		interest := balance * monthlyRate
		principal := payment - interest
		if principal <= 0 {
			g.logger.Warn("payment does not cover interest, stopping schedule",
				zap.String("op", "loans.Generate"),
				zap.Int("month", month),
				zap.Float64("payment", payment),
				zap.Float64("interest", interest),
			)
			break
		}

		row := AmortizationRow{
			Month:    month,
			Year:     (month-1)/constants.MonthsPerYear + 1,
			Payment:  payment,
			Interest: interest,
		}
		if month >= numPayments || principal >= balance || mathutil.Round(balance-principal) == 0 {
			// Absorb floating residue in the final payment.
			row.Principal = balance
			row.Payment = balance + interest
			row.Balance = 0
		} else {
			row.Principal = principal
			row.Balance = balance - principal
		}
		rows = append(rows, row)
		balance = row.Balance
	}

	g.logger.Debug(fmt.Sprintf("generated %d-month schedule for %.2f at %.4f", len(rows), loan.Balance, loan.Rate),
		zap.String("op", "loans.Generate"),
		zap.Float64("extraPayment", extraPayment),
	)
	return rows
}

// GenerateSchedulePair builds the current and refinanced schedules.
func GenerateSchedulePair(p PairParams) (current []AmortizationRow, refinanced []AmortizationRow, err error) {
	return NewScheduleGenerator(nil).GeneratePair(p)
}

// GeneratePair builds the current and refinanced schedules. With
// MaintainPayment the refinanced loan is paid at no less than the current
// payment; the difference goes to principal.
func (g *ScheduleGenerator) GeneratePair(p PairParams) (current []AmortizationRow, refinanced []AmortizationRow, err error) {
	currentLoan, newLoan, err := p.Loans()
	if err != nil {
		return nil, nil, err
	}

	extra := 0.0
	if p.MaintainPayment {
		if diff := currentLoan.MonthlyPayment() - newLoan.MonthlyPayment(); diff > 0 {
			extra = diff
		}
		g.logger.Debug(fmt.Sprintf("maintaining current payment adds %.2f principal per month", extra),
			zap.String("op", "loans.GeneratePair"),
		)
	}

	return g.Generate(currentLoan, 0), g.Generate(newLoan, extra), nil
}

// AggregateYearly rolls monthly rows into loan years.
func AggregateYearly(rows []AmortizationRow) []YearlyRow {
	var years []YearlyRow
	for _, row := range rows {
		if len(years) == 0 || years[len(years)-1].Year != row.Year {
			years = append(years, YearlyRow{Year: row.Year})
		}
		y := &years[len(years)-1]
		y.Payment += row.Payment
		y.Principal += row.Principal
		y.Interest += row.Interest
		y.Balance = row.Balance
	}
	return years
}

// GenerateComparisonSchedule builds the year-by-year comparison table.
func GenerateComparisonSchedule(p PairParams) ([]ComparisonRow, error) {
	return NewScheduleGenerator(nil).Compare(p)
}

// Compare builds the year-by-year comparison table. It covers every year
// either loan is still amortizing; a loan that has already paid off
// contributes no activity and its final balance.
func (g *ScheduleGenerator) Compare(p PairParams) ([]ComparisonRow, error) {
	currentRows, newRows, err := g.GeneratePair(p)
	if err != nil {
		return nil, err
	}

	currentYears := AggregateYearly(currentRows)
	newYears := AggregateYearly(newRows)

	totalYears := max(finalYear(currentYears), finalYear(newYears))
	rows := make([]ComparisonRow, 0, totalYears)
	for year := 1; year <= totalYears; year++ {
		cur := yearOrPadding(currentYears, year)
		nw := yearOrPadding(newYears, year)
		rows = append(rows, ComparisonRow{
			Year:             year,
			CurrentPrincipal: cur.Principal,
			CurrentInterest:  cur.Interest,
			CurrentBalance:   cur.Balance,
			NewPrincipal:     nw.Principal,
			NewInterest:      nw.Interest,
			NewBalance:       nw.Balance,
			PrincipalDiff:    nw.Principal - cur.Principal,
			InterestDiff:     nw.Interest - cur.Interest,
			BalanceDiff:      nw.Balance - cur.Balance,
		})
	}

	g.logger.Debug(fmt.Sprintf("built %d-year comparison schedule", len(rows)),
		zap.String("op", "loans.Compare"),
	)
	return rows, nil
}

func finalYear(years []YearlyRow) int {
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1].Year
}

// yearOrPadding returns the aggregate for year, or a zero-activity row
// holding the final balance once the loan has amortized.
func yearOrPadding(years []YearlyRow, year int) YearlyRow {
	if year-1 < len(years) && years[year-1].Year == year {
		return years[year-1]
	}
	padding := YearlyRow{Year: year}
	if len(years) > 0 {
		padding.Balance = years[len(years)-1].Balance
	}
	return padding
}
