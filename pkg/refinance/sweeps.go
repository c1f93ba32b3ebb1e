package refinance

import (
	"fmt"
	"math"

	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/mathutil"
)

// SensitivityRow is the outcome of refinancing at one candidate rate.
type SensitivityRow struct {
	NewRatePct            float64  `json:"newRate"`
	MonthlySavings        float64  `json:"monthlySavings"`
	SimpleBreakevenMonths *float64 `json:"simpleBreakevenMonths"`
	NPVBreakevenMonths    *int     `json:"npvBreakevenMonths"`
	WindowNPV             float64  `json:"fiveYearNpv"`
}

// HoldingPeriodRow is the outcome of keeping the new loan for Years before
// selling or refinancing again.
type HoldingPeriodRow struct {
	Years                 int      `json:"years"`
	NominalSavings        float64  `json:"nominalSavings"`
	NPV                   float64  `json:"npv"`
	NPVAfterTax           float64  `json:"npvAfterTax"`
	SimpleBreakevenMonths *float64 `json:"simpleBreakevenMonths"`
	NPVBreakevenMonths    *int     `json:"npvBreakevenMonths"`
	Recommendation        string   `json:"recommendation"`
}

// RunSensitivity analyzes s once per candidate new rate, in the given order.
func RunSensitivity(s Scenario, rateSteps []float64) ([]SensitivityRow, error) {
	rows := make([]SensitivityRow, 0, len(rateSteps))
	for _, rate := range rateSteps {
		a, err := Analyze(s.WithNewRate(rate))
		if err != nil {
			return nil, fmt.Errorf("sensitivity at rate %v: %w", rate, err)
		}
		rows = append(rows, SensitivityRow{
			NewRatePct:            mathutil.DecimalToPercent(rate),
			MonthlySavings:        a.MonthlySavings,
			SimpleBreakevenMonths: a.SimpleBreakevenMonths,
			NPVBreakevenMonths:    a.NPVBreakevenMonths,
			WindowNPV:             a.FiveYearNPV,
		})
	}
	return rows, nil
}

// RunHoldingPeriodAnalysis evaluates the scenario at each holding period
// (years) and labels it with the recommendation policy.
func RunHoldingPeriodAnalysis(s Scenario, holdingPeriods []int, thresholds Thresholds) ([]HoldingPeriodRow, error) {
	a, err := Analyze(s)
	if err != nil {
		return nil, fmt.Errorf("holding period analysis: %w", err)
	}

	rows := make([]HoldingPeriodRow, 0, len(holdingPeriods))
	for _, years := range holdingPeriods {
		months := years * constants.MonthsPerYear
		afterTaxNPV := DiscountedSavings(a.AfterTaxMonthlySavings, s.ClosingCosts, s.OpportunityRate, months)
		rows = append(rows, HoldingPeriodRow{
			Years:                 years,
			NominalSavings:        a.MonthlySavings*float64(months) - s.ClosingCosts,
			NPV:                   DiscountedSavings(a.MonthlySavings, s.ClosingCosts, s.OpportunityRate, months),
			NPVAfterTax:           afterTaxNPV,
			SimpleBreakevenMonths: a.SimpleBreakevenMonths,
			NPVBreakevenMonths:    a.NPVBreakevenMonths,
			Recommendation:        thresholds.Recommend(afterTaxNPV, months, a.AfterTaxNPVBreakevenMonths),
		})
	}
	return rows, nil
}

// BuildRateSteps lists candidate new rates (fractions) below currentRatePct,
// one step apart, down to maxReductionPct below it. All arguments are
// percentages. At most constants.MaxSensitivitySteps rates are returned and
// non-positive rates are never produced.
func BuildRateSteps(currentRatePct, maxReductionPct, stepPct float64) []float64 {
	if stepPct <= 0 || math.IsNaN(stepPct) {
		return []float64{}
	}
	steps := []float64{}
	reduction := stepPct
	for reduction <= maxReductionPct+constants.RateStepSlack && len(steps) < constants.MaxSensitivitySteps {
		rate := currentRatePct - reduction
		if rate <= 0 {
			// Every later step is lower still.
			break
		}
		steps = append(steps, mathutil.PercentToDecimal(rate))
		reduction += stepPct
	}
	return steps
}
