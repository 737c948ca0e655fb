package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/logger"
	"asset-advisor/internal/symbols"
	"asset-advisor/internal/types"
)

// EvaluateSell assesses a proposed sale of qty units of symbol. NO_HOLDINGS
// and INSUFFICIENT_QUANTITY short-circuit before any price lookup; otherwise
// the move since purchase is classified by magnitude. A missing price is an
// error, never a zeroed assessment.
func (e *Engine) EvaluateSell(ctx context.Context, symbol string, qty int) (types.RiskAssessment, error) {
	norm := symbols.Normalize(symbol)
	if norm == "" {
		return types.RiskAssessment{}, fmt.Errorf("evaluate sell: empty symbol")
	}
	if qty <= 0 {
		return types.RiskAssessment{}, fmt.Errorf("evaluate sell %s: quantity must be positive, got %d", norm, qty)
	}

	lots, err := e.lotsFor(ctx, norm)
	if err != nil {
		return types.RiskAssessment{}, err
	}

	if len(lots) == 0 {
		a := types.RiskAssessment{
			Action:         types.ActionSell,
			RiskLevel:      types.RiskNoHoldings,
			RequestedQty:   qty,
			Recommendation: fmt.Sprintf("You have no existing position in %s to sell.", norm),
		}
		logger.Advice(ctx, norm, string(types.ActionSell), string(a.RiskLevel))
		return a, nil
	}

	available := availableQty(lots)
	if qty > available {
		a := types.RiskAssessment{
			Action:         types.ActionSell,
			RiskLevel:      types.RiskInsufficientQuantity,
			RequestedQty:   qty,
			AvailableQty:   available,
			Recommendation: fmt.Sprintf("You requested to sell %d units of %s but only hold %d.", qty, norm, available),
		}
		logger.Advice(ctx, norm, string(types.ActionSell), string(a.RiskLevel), "requested", qty, "available", available)
		return a, nil
	}

	avg := weightedAverageCost(lots)
	price, err := e.oracle.CurrentPrice(ctx, norm, lots[0].AssetClass)
	if err != nil {
		return types.RiskAssessment{}, fmt.Errorf("evaluate sell %s: %w", norm, err)
	}

	pct := ProfitPercent(avg, price)
	level := e.classifier.Magnitude(pct)

	a := types.RiskAssessment{
		Action:            types.ActionSell,
		RiskLevel:         level,
		AvgBuyPrice:       decimal.NewNullDecimal(avg),
		CurrentPrice:      price,
		PercentDifference: pct,
		MonetaryImpact:    MonetaryDelta(avg, price, qty),
		RequestedQty:      qty,
		AvailableQty:      available,
		Recommendation:    sellRecommendation(norm, level, pct),
	}
	logger.Advice(ctx, norm, string(types.ActionSell), string(level),
		"percent", pct.String(), "full_sell", a.IsFullSell())
	return a, nil
}

// EvaluateBuy assesses a proposed purchase of qty units of symbol. With no
// prior position the buy is always LOW risk; against an existing position the
// price is compared to the buyer's own average cost.
func (e *Engine) EvaluateBuy(ctx context.Context, symbol string, qty int) (types.RiskAssessment, error) {
	norm := symbols.Normalize(symbol)
	if norm == "" {
		return types.RiskAssessment{}, fmt.Errorf("evaluate buy: empty symbol")
	}
	if qty <= 0 {
		return types.RiskAssessment{}, fmt.Errorf("evaluate buy %s: quantity must be positive, got %d", norm, qty)
	}

	lots, err := e.lotsFor(ctx, norm)
	if err != nil {
		return types.RiskAssessment{}, err
	}

	class := types.AssetStock
	if len(lots) > 0 {
		class = lots[0].AssetClass
	} else if symbols.KnownCrypto(norm) {
		class = types.AssetCrypto
	}

	price, err := e.oracle.CurrentPrice(ctx, norm, class)
	if err != nil {
		return types.RiskAssessment{}, fmt.Errorf("evaluate buy %s: %w", norm, err)
	}

	if len(lots) == 0 {
		a := types.RiskAssessment{
			Action:         types.ActionBuy,
			RiskLevel:      types.RiskLow,
			CurrentPrice:   price,
			RequestedQty:   qty,
			Recommendation: fmt.Sprintf("No prior cost basis for %s; safe to establish a position at %s.", norm, price.StringFixed(2)),
		}
		logger.Advice(ctx, norm, string(types.ActionBuy), string(a.RiskLevel))
		return a, nil
	}

	avg := weightedAverageCost(lots)
	pct := ProfitPercent(avg, price)
	level := e.classifier.Premium(avg, price)

	a := types.RiskAssessment{
		Action:            types.ActionBuy,
		RiskLevel:         level,
		AvgBuyPrice:       decimal.NewNullDecimal(avg),
		CurrentPrice:      price,
		PercentDifference: pct,
		MonetaryImpact:    MonetaryDelta(avg, price, qty),
		RequestedQty:      qty,
		AvailableQty:      availableQty(lots),
		Recommendation:    buyRecommendation(norm, level, pct, avg),
	}
	logger.Advice(ctx, norm, string(types.ActionBuy), string(level), "percent", pct.String())
	return a, nil
}

// lotsFor returns the open lots whose normalized symbol matches norm. Aliases
// stored under different raw symbols collapse onto the same position here.
func (e *Engine) lotsFor(ctx context.Context, norm string) ([]types.Holding, error) {
	all, err := e.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load holdings for %s: %w", norm, err)
	}
	var lots []types.Holding
	for _, h := range all {
		if h.Qty > 0 && symbols.Normalize(h.Symbol) == norm {
			lots = append(lots, h)
		}
	}
	return lots, nil
}

func sellRecommendation(symbol string, level types.RiskLevel, pct decimal.Decimal) string {
	direction := "gained"
	if pct.IsNegative() {
		direction = "lost"
	}
	moved := pct.Abs().StringFixed(2)
	switch level {
	case types.RiskHigh:
		return fmt.Sprintf("Selling %s now is high risk: the position has %s %s%% since purchase. Review carefully before proceeding.", symbol, direction, moved)
	case types.RiskMedium:
		return fmt.Sprintf("%s has %s %s%% since purchase. Consider holding or selling in parts.", symbol, direction, moved)
	default:
		return fmt.Sprintf("%s has moved %s%% since purchase, within a normal range. Safe to proceed.", symbol, moved)
	}
}

func buyRecommendation(symbol string, level types.RiskLevel, pct decimal.Decimal, avg decimal.Decimal) string {
	if level == types.RiskMedium {
		return fmt.Sprintf("Buying %s at %s%% above your average cost of %s is a premium purchase. Consider waiting for a dip.", symbol, pct.StringFixed(2), avg.StringFixed(2))
	}
	return fmt.Sprintf("%s trades at or below your average cost of %s. Reasonable entry to average down.", symbol, avg.StringFixed(2))
}
