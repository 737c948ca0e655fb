package engineobs

import (
	"context"

	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/logger"
	"asset-advisor/internal/trace"
	"asset-advisor/internal/types"
)

// observableAdvisor wraps an Advisor with observability (logging & tracing)
type observableAdvisor struct {
	advisor interfaces.Advisor
}

// Compile-time interface check
var _ interfaces.Advisor = (*observableAdvisor)(nil)

// Wrap wraps an advisor with observability middleware
func Wrap(advisor interfaces.Advisor) interfaces.Advisor {
	return &observableAdvisor{
		advisor: advisor,
	}
}

// TopN produces a ranking with observability
func (oa *observableAdvisor) TopN(ctx context.Context, scope types.Scope, n int) ([]types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.TopN")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Producing recommendations", "scope", string(scope), "n", n)

	recs, err := oa.advisor.TopN(ctx, scope, n)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to produce recommendations", err, "scope", string(scope), "n", n)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Recommendations produced", "scope", string(scope), "count", len(recs))
	return recs, nil
}

// EvaluateBuy assesses a purchase with observability
func (oa *observableAdvisor) EvaluateBuy(ctx context.Context, symbol string, qty int) (types.RiskAssessment, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.EvaluateBuy")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Evaluating buy", "symbol", symbol, "qty", qty)

	a, err := oa.advisor.EvaluateBuy(ctx, symbol, qty)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to evaluate buy", err, "symbol", symbol, "qty", qty)
		return types.RiskAssessment{}, err
	}

	logger.InfoSkip(ctx, 1, "Buy evaluated", "symbol", symbol, "risk_level", string(a.RiskLevel))
	return a, nil
}

// EvaluateSell assesses a sale with observability
func (oa *observableAdvisor) EvaluateSell(ctx context.Context, symbol string, qty int) (types.RiskAssessment, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.EvaluateSell")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Evaluating sell", "symbol", symbol, "qty", qty)

	a, err := oa.advisor.EvaluateSell(ctx, symbol, qty)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to evaluate sell", err, "symbol", symbol, "qty", qty)
		return types.RiskAssessment{}, err
	}

	logger.InfoSkip(ctx, 1, "Sell evaluated", "symbol", symbol, "risk_level", string(a.RiskLevel), "full_sell", a.IsFullSell())
	return a, nil
}
