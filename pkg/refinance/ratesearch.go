package refinance

import (
	"fmt"

	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/format"
	"github.com/iwvelando/refi-calculator/pkg/optimization"
	"go.uber.org/zap"
)

// RateSearcher finds the break-even refinance rate: the highest new rate
// whose NPV over the scenario's NPV window is still non-negative.
type RateSearcher struct {
	logger        *zap.Logger
	Tolerance     float64
	MaxIterations int
	CeilingSpread float64
}

type rateEvaluation struct {
	rate float64
	npv  float64
}

func (e rateEvaluation) feasible() bool {
	return e.npv >= 0
}

// NewRateSearcher creates a searcher with the default bounds.
func NewRateSearcher(logger *zap.Logger) *RateSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateSearcher{
		logger:        logger,
		Tolerance:     constants.DefaultRateSearchTolerance,
		MaxIterations: constants.DefaultRateSearchMaxIterations,
		CeilingSpread: constants.DefaultRateSearchCeilingSpread,
	}
}

// Search bisects the new rate between zero and the current rate plus the
// ceiling spread. Window NPV falls as the new rate rises, so the feasible
// region is always a lower interval.
func (r *RateSearcher) Search(s Scenario) (optimization.Summary, error) {
	if err := s.Validate(); err != nil {
		return optimization.Summary{}, fmt.Errorf("rate search: %w", err)
	}

	minRate := 0.0
	maxRate := s.CurrentRate + r.CeilingSpread

	lowerEval, err := r.evaluate(s, minRate)
	if err != nil {
		return optimization.Summary{}, err
	}
	upperEval, err := r.evaluate(s, maxRate)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := optimization.Summary{
		Scope:           "scenario",
		TargetName:      "refinance",
		Field:           "newRate",
		Original:        s.NewRate,
		OriginalDisplay: format.Percent(s.NewRate),
		Lower:           minRate,
		Upper:           maxRate,
		Floor:           0,
	}

	iterations := 0
	var finalEval rateEvaluation
	converged := false

	switch {
	case upperEval.feasible():
		finalEval = upperEval
		converged = true
		summary.Notes = []string{fmt.Sprintf(
			"%d-year NPV stays non-negative up to the search ceiling %s",
			s.NPVWindowYears, format.Percent(maxRate),
		)}
	case !lowerEval.feasible():
		finalEval = lowerEval
		summary.Notes = []string{fmt.Sprintf(
			"closing costs of %s are not recovered within %d years even at %s",
			format.Currency(s.ClosingCosts), s.NPVWindowYears, format.Percent(minRate),
		)}
	default:
		finalEval = lowerEval
		lower := lowerEval.rate
		upper := upperEval.rate
		for iterations < r.MaxIterations && upper-lower > r.Tolerance {
			mid := lower + (upper-lower)/2
			evalMid, err := r.evaluate(s, mid)
			if err != nil {
				return optimization.Summary{}, err
			}
			iterations++
			if evalMid.feasible() {
				finalEval = evalMid
				lower = mid
			} else {
				upper = mid
			}
		}
		converged = upper-lower <= r.Tolerance
		if !converged {
			summary.Notes = []string{fmt.Sprintf("stopped after %d iterations", iterations)}
		}
	}

	summary.Value = finalEval.rate
	summary.ValueDisplay = format.Percent(finalEval.rate)
	summary.Objective = finalEval.npv
	summary.Headroom = finalEval.rate - s.NewRate
	summary.Iterations = iterations
	summary.Converged = converged

	r.logger.Info("rate search finished",
		zap.String("op", "refinance.Search"),
		zap.Float64("quotedRate", s.NewRate),
		zap.Float64("breakevenRate", summary.Value),
		zap.Float64("windowNPV", summary.Objective),
		zap.Float64("headroom", summary.Headroom),
		zap.Int("iterations", iterations),
		zap.Bool("converged", converged),
	)
	return summary, nil
}

func (r *RateSearcher) evaluate(s Scenario, rate float64) (rateEvaluation, error) {
	a, err := Analyze(s.WithNewRate(rate))
	if err != nil {
		return rateEvaluation{}, fmt.Errorf("rate search at %v: %w", rate, err)
	}
	r.logger.Debug("evaluated candidate rate",
		zap.String("op", "refinance.evaluate"),
		zap.Float64("rate", rate),
		zap.Float64("windowNPV", a.FiveYearNPV),
	)
	return rateEvaluation{rate: rate, npv: a.FiveYearNPV}, nil
}
