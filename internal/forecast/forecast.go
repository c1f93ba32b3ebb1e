// Package forecast runs a complete refinance evaluation for a configuration:
// the scenario analysis, both sweeps, the amortization schedules and,
// optionally, the break-even rate search.
package forecast

import (
	"fmt"
	"time"

	"github.com/iwvelando/refi-calculator/internal/config"
	"github.com/iwvelando/refi-calculator/pkg/loans"
	"github.com/iwvelando/refi-calculator/pkg/optimization"
	"github.com/iwvelando/refi-calculator/pkg/output"
	"github.com/iwvelando/refi-calculator/pkg/refinance"
	"github.com/iwvelando/refi-calculator/pkg/report"
	"go.uber.org/zap"
)

// Options selects the optional parts of a forecast.
type Options struct {
	RateSearch bool
}

// Forecast holds all results computed for one scenario.
type Forecast struct {
	Scenario        refinance.Scenario           `json:"scenario"`
	Analysis        refinance.Analysis           `json:"analysis"`
	Sensitivity     []refinance.SensitivityRow   `json:"sensitivity"`
	Holding         []refinance.HoldingPeriodRow `json:"holding"`
	Comparison      []loans.ComparisonRow        `json:"comparison"`
	CurrentSchedule []loans.AmortizationRow      `json:"-"`
	NewSchedule     []loans.AmortizationRow      `json:"-"`
	RateSearch      *optimization.Summary        `json:"rateSearch,omitempty"`
	Warnings        []string                     `json:"warnings,omitempty"`
}

// GetForecast validates conf and computes every result for its scenario.
func GetForecast(logger *zap.Logger, conf config.Configuration, opts Options) (Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	warnings, err := conf.ValidateConfiguration()
	if err != nil {
		return Forecast{}, err
	}
	for _, warning := range warnings {
		logger.Warn(warning, zap.String("op", "forecast.GetForecast"))
	}

	scenario := conf.RefinanceScenario()
	result := Forecast{Scenario: scenario, Warnings: warnings}

	result.Analysis, err = refinance.Analyze(scenario)
	if err != nil {
		return Forecast{}, fmt.Errorf("failed to analyze scenario: %w", err)
	}

	result.Sensitivity, err = refinance.RunSensitivity(scenario, conf.RateSteps())
	if err != nil {
		return Forecast{}, fmt.Errorf("failed to run sensitivity: %w", err)
	}

	result.Holding, err = refinance.RunHoldingPeriodAnalysis(scenario, conf.Holding.Periods, conf.Thresholds())
	if err != nil {
		return Forecast{}, fmt.Errorf("failed to run holding period analysis: %w", err)
	}

	generator := loans.NewScheduleGenerator(logger)
	result.CurrentSchedule, result.NewSchedule, err = generator.GeneratePair(scenario.Pair())
	if err != nil {
		return Forecast{}, fmt.Errorf("failed to generate schedules: %w", err)
	}
	result.Comparison, err = generator.Compare(scenario.Pair())
	if err != nil {
		return Forecast{}, fmt.Errorf("failed to build comparison: %w", err)
	}

	if opts.RateSearch {
		summary, err := conf.RateSearch.NewSearcher(logger).Search(scenario)
		if err != nil {
			return Forecast{}, fmt.Errorf("failed to search break-even rate: %w", err)
		}
		result.RateSearch = &summary
	}

	logger.Debug(fmt.Sprintf("forecast computed with %d sensitivity rows and %d holding rows",
		len(result.Sensitivity), len(result.Holding)),
		zap.String("op", "forecast.GetForecast"),
	)
	return result, nil
}

// Tables returns the exportable tables. The monthly schedule is the new
// loan's.
func (f Forecast) Tables() output.Tables {
	return output.Tables{
		Analysis:     f.Analysis,
		Sensitivity:  f.Sensitivity,
		Holding:      f.Holding,
		Amortization: f.Comparison,
		Schedule:     f.NewSchedule,
	}
}

// ReportInput returns the content of a PDF report generated at now.
func (f Forecast) ReportInput(now time.Time) report.Input {
	return report.Input{
		Scenario:    f.Scenario,
		Analysis:    f.Analysis,
		Sensitivity: f.Sensitivity,
		Holding:     f.Holding,
		Comparison:  f.Comparison,
		GeneratedAt: now,
	}
}
