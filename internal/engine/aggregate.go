package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/symbols"
	"asset-advisor/internal/types"
)

// Aggregate rolls purchase lots up into one position per canonical symbol:
// total quantity plus the quantity-weighted average cost, rounded half-up to
// 4 decimal places. Groups that net out to zero quantity or a zero weighted
// sum are dropped. Output is sorted by symbol so repeated calls over the same
// lots rank identically.
func Aggregate(holdings []types.Holding) []types.AggregatedPosition {
	type group struct {
		class    types.AssetClass
		qty      int64
		weighted decimal.Decimal
	}

	groups := make(map[string]*group)
	for _, h := range holdings {
		sym := symbols.Normalize(h.Symbol)
		if sym == "" || h.Qty <= 0 {
			continue
		}
		g, ok := groups[sym]
		if !ok {
			g = &group{class: h.AssetClass}
			groups[sym] = g
		}
		g.qty += int64(h.Qty)
		g.weighted = g.weighted.Add(h.BuyPrice.Mul(decimal.NewFromInt(int64(h.Qty))))
	}

	out := make([]types.AggregatedPosition, 0, len(groups))
	for sym, g := range groups {
		if g.qty <= 0 || g.weighted.IsZero() {
			continue
		}
		out = append(out, types.AggregatedPosition{
			Symbol:      sym,
			AssetClass:  g.class,
			TotalQty:    int(g.qty),
			AvgBuyPrice: g.weighted.DivRound(decimal.NewFromInt(g.qty), 4),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// availableQty sums the remaining units across lots.
func availableQty(lots []types.Holding) int {
	total := 0
	for _, h := range lots {
		if h.Qty > 0 {
			total += h.Qty
		}
	}
	return total
}

// weightedAverageCost computes the quantity-weighted average purchase price
// over lots, 4 decimal places. Zero when the lots carry no weight.
func weightedAverageCost(lots []types.Holding) decimal.Decimal {
	var qty int64
	weighted := decimal.Zero
	for _, h := range lots {
		if h.Qty <= 0 {
			continue
		}
		qty += int64(h.Qty)
		weighted = weighted.Add(h.BuyPrice.Mul(decimal.NewFromInt(int64(h.Qty))))
	}
	if qty == 0 || weighted.IsZero() {
		return decimal.Zero
	}
	return weighted.DivRound(decimal.NewFromInt(qty), 4)
}
