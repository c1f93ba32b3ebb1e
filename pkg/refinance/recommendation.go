package refinance

import (
	"github.com/iwvelando/refi-calculator/pkg/constants"
)

// Thresholds is the holding-period recommendation policy.
type Thresholds struct {
	// MarginalBand is the after-tax NPV magnitude, in dollars, treated as
	// indistinguishable from zero.
	MarginalBand float64 `json:"marginalBand" yaml:"marginalBand"`
	// StrongBreakevenMultiple is how many after-tax NPV breakeven periods
	// must fit in the holding period for a "Strong Yes".
	StrongBreakevenMultiple float64 `json:"strongBreakevenMultiple" yaml:"strongBreakevenMultiple"`
}

// DefaultThresholds returns the stock recommendation policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MarginalBand:            constants.DefaultMarginalBand,
		StrongBreakevenMultiple: constants.DefaultStrongBreakevenMultiple,
	}
}

// Recommend labels a holding period from its after-tax NPV and the
// after-tax NPV breakeven month.
func (t Thresholds) Recommend(npvAfterTax float64, holdingMonths int, breakevenMonths *int) string {
	switch {
	case npvAfterTax < -t.MarginalBand:
		return constants.RecommendationNo
	case npvAfterTax <= t.MarginalBand:
		return constants.RecommendationMarginal
	case breakevenMonths != nil && float64(holdingMonths) >= t.StrongBreakevenMultiple*float64(*breakevenMonths):
		return constants.RecommendationStrongYes
	default:
		return constants.RecommendationYes
	}
}
