// Package report renders periodic plain-text portfolio summaries.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/engine"
	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/logger"
	"asset-advisor/internal/store"
)

type Service struct {
	store      interfaces.HoldingsStore
	oracle     interfaces.PriceOracle
	classifier *engine.Classifier
}

func NewService(cfg *store.Config, st interfaces.HoldingsStore, oracle interfaces.PriceOracle) *Service {
	return &Service{
		store:      st,
		oracle:     oracle,
		classifier: engine.NewClassifier(cfg.Risk.HighPct, cfg.Risk.MediumPct),
	}
}

// Weekly renders the portfolio summary for the trailing seven days: every open
// position with its live profit and risk tier, totals, and sales completed in
// the window. Positions without a reachable price are listed without numbers
// rather than dropped.
func (s *Service) Weekly(ctx context.Context) (string, error) {
	op := logger.StartOperation(ctx, "report.Weekly")
	ctx = op.GetContext()

	holdings, err := s.store.FindAll(ctx)
	if err != nil {
		op.EndWithError(err)
		return "", fmt.Errorf("weekly report: %w", err)
	}

	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)

	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio report, week of %s to %s\n\n", weekAgo.Format("2006-01-02"), now.Format("2006-01-02"))

	positions := engine.Aggregate(holdings)
	if len(positions) == 0 {
		b.WriteString("No open positions.\n")
	} else {
		b.WriteString("Open positions:\n")
	}

	invested := decimal.Zero
	current := decimal.Zero
	priced := 0
	for _, pos := range positions {
		cost := pos.AvgBuyPrice.Mul(decimal.NewFromInt(int64(pos.TotalQty)))

		price, err := s.oracle.CurrentPrice(ctx, pos.Symbol, pos.AssetClass)
		if err != nil {
			fmt.Fprintf(&b, "  %-6s  qty %-5d avg %-10s price n/a\n", pos.Symbol, pos.TotalQty, pos.AvgBuyPrice.StringFixed(2))
			continue
		}

		pct := engine.ProfitPercent(pos.AvgBuyPrice, price)
		fmt.Fprintf(&b, "  %-6s  qty %-5d avg %-10s price %-10s %7s%%  %s\n",
			pos.Symbol, pos.TotalQty, pos.AvgBuyPrice.StringFixed(2), price.StringFixed(2),
			pct.StringFixed(2), s.classifier.Magnitude(pct))

		invested = invested.Add(cost)
		current = current.Add(price.Mul(decimal.NewFromInt(int64(pos.TotalQty))))
		priced++
	}

	if priced > 0 {
		overall := engine.ProfitPercent(invested, current)
		fmt.Fprintf(&b, "\nTotals (priced positions): invested %s, current %s, change %s%%\n",
			invested.StringFixed(2), current.StringFixed(2), overall.StringFixed(2))
	}

	sales := 0
	for _, h := range holdings {
		if h.SellingDate == nil || h.SellingDate.Before(weekAgo) || !h.SellingPrice.Valid {
			continue
		}
		if sales == 0 {
			b.WriteString("\nCompleted sales this week:\n")
		}
		fmt.Fprintf(&b, "  %-6s  sold at %s on %s\n", h.Symbol, h.SellingPrice.Decimal.StringFixed(2), h.SellingDate.Format("2006-01-02"))
		sales++
	}

	op.End("positions", len(positions), "sales", sales)
	return b.String(), nil
}
