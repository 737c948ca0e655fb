package engine

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProfitPercent returns the percentage move from avgCost to currentPrice,
// computed at 4 decimal places internally and rounded half-up to 2 for
// presentation. Positive means gain. A zero cost basis floors to 0 rather
// than dividing by zero.
func ProfitPercent(avgCost, currentPrice decimal.Decimal) decimal.Decimal {
	if avgCost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return currentPrice.Sub(avgCost).DivRound(avgCost, 4).Mul(hundred).Round(2)
}

// MonetaryDelta returns (currentPrice − avgCost) × quantity, sign preserved.
// Call sites that want an absolute figure take Abs themselves.
func MonetaryDelta(avgCost, currentPrice decimal.Decimal, quantity int) decimal.Decimal {
	return currentPrice.Sub(avgCost).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
