package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/logger"
	"asset-advisor/internal/types"
)

// TopN returns up to n recommendations for the requested scope. Held positions
// are ranked first by their live profit percent; remaining slots are filled
// from market-wide candidates using day-level performance. The result is
// sorted descending by percent, entries without a percent last, with portfolio
// entries winning ties against market fills.
func (e *Engine) TopN(ctx context.Context, scope types.Scope, n int) ([]types.Recommendation, error) {
	if n <= 0 {
		return nil, fmt.Errorf("top-n: n must be positive, got %d", n)
	}

	op := logger.StartOperation(ctx, "engine.TopN", "scope", string(scope), "n", n)
	ctx = op.GetContext()

	holdings, err := e.holdingsForScope(ctx, scope)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	recs := make([]types.Recommendation, 0, n)
	seen := make(map[string]bool)
	for _, pos := range Aggregate(holdings) {
		price, err := e.oracle.CurrentPrice(ctx, pos.Symbol, pos.AssetClass)
		if err != nil {
			logger.Warn(ctx, "Skipping held position without a price", "symbol", pos.Symbol, "error", err)
			continue
		}
		pct := ProfitPercent(pos.AvgBuyPrice, price)
		recs = append(recs, types.Recommendation{
			Symbol:        pos.Symbol,
			RiskLevel:     e.classifier.Magnitude(pct),
			AvgBuyPrice:   decimal.NewNullDecimal(pos.AvgBuyPrice),
			CurrentPrice:  decimal.NewNullDecimal(price),
			ProfitPercent: types.KnownPercent(pct),
		})
		seen[pos.Symbol] = true
	}

	if len(recs) < n {
		recs = append(recs, e.marketFill(ctx, scope, n-len(recs), seen)...)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ProfitPercent.Cmp(recs[j].ProfitPercent) > 0
	})
	if len(recs) > n {
		recs = recs[:n]
	}

	op.End("results", len(recs))
	return recs, nil
}

func (e *Engine) holdingsForScope(ctx context.Context, scope types.Scope) ([]types.Holding, error) {
	switch scope {
	case types.ScopeStocks:
		return e.store.FindByAssetClass(ctx, types.AssetStock)
	case types.ScopeCrypto:
		return e.store.FindByAssetClass(ctx, types.AssetCrypto)
	default:
		return e.store.FindAll(ctx)
	}
}

// marketFill draws up to need candidates the user does not already hold.
// Candidate feeds degrade internally, so a failure here only shrinks the
// result; it never fails the ranking.
func (e *Engine) marketFill(ctx context.Context, scope types.Scope, need int, seen map[string]bool) []types.Recommendation {
	var cands []types.MarketCandidate
	if scope == types.ScopeStocks || scope == types.ScopeAll {
		stocks, err := e.candidates.TopStocks(ctx, need+len(seen))
		if err != nil {
			logger.Warn(ctx, "Stock candidate feed failed, filling from remaining sources", "error", err)
		}
		cands = append(cands, stocks...)
	}
	if scope == types.ScopeCrypto || scope == types.ScopeAll {
		crypto, err := e.candidates.TopCrypto(ctx, need+len(seen))
		if err != nil {
			logger.Warn(ctx, "Crypto candidate feed failed, filling from remaining sources", "error", err)
		}
		cands = append(cands, crypto...)
	}

	fill := make([]types.Recommendation, 0, need)
	for _, cand := range cands {
		if len(fill) >= need {
			break
		}
		if cand.Symbol == "" || seen[cand.Symbol] {
			continue
		}
		seen[cand.Symbol] = true

		level := types.RiskLow
		if cand.ChangePercent.Known() {
			level = e.classifier.Magnitude(cand.ChangePercent.Value())
		}
		fill = append(fill, types.Recommendation{
			Symbol:        cand.Symbol,
			RiskLevel:     level,
			CurrentPrice:  cand.Price,
			ProfitPercent: cand.ChangePercent,
		})
	}
	return fill
}
