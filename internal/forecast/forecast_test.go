package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/iwvelando/refi-calculator/internal/config"
	"go.uber.org/zap"
)

func TestGetForecastDefaults(t *testing.T) {
	conf := config.Default()

	result, err := GetForecast(zap.NewNop(), *conf, Options{})
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}

	if result.Analysis.MonthlySavings <= 0 {
		t.Errorf("expected positive monthly savings, got %.2f", result.Analysis.MonthlySavings)
	}
	if len(result.Holding) != len(conf.Holding.Periods) {
		t.Errorf("expected %d holding rows, got %d", len(conf.Holding.Periods), len(result.Holding))
	}
	if len(result.Sensitivity) != len(conf.RateSteps()) {
		t.Errorf("expected %d sensitivity rows, got %d", len(conf.RateSteps()), len(result.Sensitivity))
	}
	if len(result.NewSchedule) != 360 {
		t.Errorf("expected 360 new-loan rows, got %d", len(result.NewSchedule))
	}
	if len(result.CurrentSchedule) != 300 {
		t.Errorf("expected 300 current-loan rows, got %d", len(result.CurrentSchedule))
	}
	if len(result.Comparison) != 30 {
		t.Errorf("expected 30 comparison years, got %d", len(result.Comparison))
	}
	if result.RateSearch != nil {
		t.Error("rate search should not run unless requested")
	}

	tables := result.Tables()
	if len(tables.Schedule) != len(result.NewSchedule) {
		t.Error("schedule table should be the new loan schedule")
	}

	in := result.ReportInput(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	if in.Analysis.NewPayment != result.Analysis.NewPayment || len(in.Comparison) != 30 {
		t.Error("report input does not carry the forecast results")
	}
}

func TestGetForecastRateSearch(t *testing.T) {
	conf := config.Default()

	result, err := GetForecast(nil, *conf, Options{RateSearch: true})
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	if result.RateSearch == nil {
		t.Fatal("expected rate search summary")
	}
	if !result.RateSearch.Converged {
		t.Errorf("expected rate search to converge, notes: %v", result.RateSearch.Notes)
	}
	if result.RateSearch.Value <= result.Scenario.NewRate {
		t.Errorf("break-even rate %.5f should exceed the offered %.5f", result.RateSearch.Value, result.Scenario.NewRate)
	}
	if math.Abs(result.RateSearch.Headroom-(result.RateSearch.Value-result.Scenario.NewRate)) > 1e-12 {
		t.Error("headroom should be the distance to the offered rate")
	}
}

func TestGetForecastInvalidScenario(t *testing.T) {
	conf := config.Default()
	conf.Scenario.CurrentBalance = 0

	if _, err := GetForecast(zap.NewNop(), *conf, Options{}); err == nil {
		t.Fatal("expected invalid scenario to fail")
	}
}

func TestGetForecastWarnings(t *testing.T) {
	conf := config.Default()
	conf.Scenario.NewRate = conf.Scenario.CurrentRate + 0.5

	result, err := GetForecast(zap.NewNop(), *conf, Options{})
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for a new rate above the current rate")
	}
	if result.Analysis.MonthlySavings >= 0 {
		t.Errorf("expected negative savings, got %.2f", result.Analysis.MonthlySavings)
	}
}
