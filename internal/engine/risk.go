package engine

import (
	"github.com/shopspring/decimal"

	"asset-advisor/internal/types"
)

// Classifier assigns risk tiers from percentage moves. Thresholds come from
// configuration; defaults are 20 (high) and 5 (medium).
type Classifier struct {
	highPct   decimal.Decimal
	mediumPct decimal.Decimal
}

func NewClassifier(highPct, mediumPct float64) *Classifier {
	return &Classifier{
		highPct:   decimal.NewFromFloat(highPct),
		mediumPct: decimal.NewFromFloat(mediumPct),
	}
}

// Magnitude classifies on the absolute size of the move, symmetric for gains
// and losses: a large swing in either direction warrants caution before
// realizing it.
func (c *Classifier) Magnitude(percent decimal.Decimal) types.RiskLevel {
	abs := percent.Abs()
	switch {
	case abs.GreaterThanOrEqual(c.highPct):
		return types.RiskHigh
	case abs.GreaterThanOrEqual(c.mediumPct):
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

// Premium classifies a buy against the buyer's own cost basis: paying above
// your historical average is a moderate-risk premium purchase, at or below is
// low risk.
func (c *Classifier) Premium(avgCost, currentPrice decimal.Decimal) types.RiskLevel {
	if currentPrice.GreaterThan(avgCost) {
		return types.RiskMedium
	}
	return types.RiskLow
}
