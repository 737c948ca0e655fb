package market

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/logger"
	"asset-advisor/internal/store"
	"asset-advisor/internal/symbols"
	"asset-advisor/internal/types"
)

// stockQuoter is what Candidates needs from the stock feed. Only the
// stockdata.org client provides day-change quotes; Kite covers prices only.
type stockQuoter interface {
	Quote(ctx context.Context, symbol string) (types.StockQuote, error)
}

type cryptoMarkets interface {
	Markets(ctx context.Context, limit int) ([]CoinMarket, error)
}

// Candidates produces market-wide symbol lists used to pad top-N rankings
// when the portfolio alone cannot fill them.
type Candidates struct {
	stocks     stockQuoter
	crypto     cryptoMarkets
	stockList  []string
	cryptoList []string
	stockPerf  map[string]decimal.Decimal
}

var _ interfaces.MarketCandidates = (*Candidates)(nil)

// NewCandidates builds the candidate source from configuration. stocks may be
// nil when no quote-capable stock feed is configured; the static performance
// table then covers every stock candidate.
func NewCandidates(stocks stockQuoter, crypto cryptoMarkets, cfg *store.Config) *Candidates {
	perf := make(map[string]decimal.Decimal, len(cfg.Fallback.StockPerformance))
	for sym, p := range cfg.Fallback.StockPerformance {
		perf[symbols.Normalize(sym)] = decimal.NewFromFloat(p)
	}
	return &Candidates{
		stocks:     stocks,
		crypto:     crypto,
		stockList:  normalizeList(cfg.Candidates.Stocks),
		cryptoList: normalizeList(cfg.Candidates.Crypto),
		stockPerf:  perf,
	}
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := symbols.Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// TopStocks joins the configured candidate list with live day-change quotes.
// Quotes are fetched concurrently but results keep the list order so repeated
// calls rank identically. A symbol whose quote fails degrades to the static
// performance table, then to an unknown percent.
func (c *Candidates) TopStocks(ctx context.Context, limit int) ([]types.MarketCandidate, error) {
	list := c.stockList
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}

	quotes := make([]*types.StockQuote, len(list))
	if c.stocks != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for i, sym := range list {
			g.Go(func() error {
				q, err := c.stocks.Quote(gctx, sym)
				if err != nil {
					logger.Warn(gctx, "Stock candidate quote failed, using static performance", "symbol", sym, "error", err)
					return nil
				}
				quotes[i] = &q
				return nil
			})
		}
		// Goroutines never return errors; Wait only releases the slots.
		_ = g.Wait()
	}

	out := make([]types.MarketCandidate, 0, len(list))
	for i, sym := range list {
		if q := quotes[i]; q != nil {
			out = append(out, types.MarketCandidate{
				Symbol:        sym,
				Price:         decimal.NewNullDecimal(q.Price),
				ChangePercent: types.KnownPercent(q.DayChangePercent),
			})
			continue
		}
		cand := types.MarketCandidate{Symbol: sym, ChangePercent: types.UnknownPercent()}
		if perf, ok := c.stockPerf[sym]; ok {
			cand.ChangePercent = types.KnownPercent(perf)
		}
		out = append(out, cand)
	}
	return out, nil
}

// TopCrypto returns the top coins by market cap from the live feed, padded
// with the configured static list. When the feed is unreachable the static
// list alone is returned, so rankings always have fill material.
func (c *Candidates) TopCrypto(ctx context.Context, limit int) ([]types.MarketCandidate, error) {
	var out []types.MarketCandidate
	seen := make(map[string]bool)

	if c.crypto != nil {
		coins, err := c.crypto.Markets(ctx, limit)
		if err != nil {
			logger.Warn(ctx, "Crypto market feed unavailable, using static candidate list", "error", err)
		}
		for _, coin := range coins {
			sym := symbols.Normalize(coin.Symbol)
			if sym == "" || seen[sym] {
				continue
			}
			seen[sym] = true
			change := decimal.Zero
			if coin.Change24h != nil {
				change = *coin.Change24h
			}
			out = append(out, types.MarketCandidate{
				Symbol:        sym,
				Price:         decimal.NewNullDecimal(coin.Price),
				ChangePercent: types.KnownPercent(change),
			})
		}
	}

	for _, sym := range c.cryptoList {
		if seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, types.MarketCandidate{
			Symbol:        sym,
			ChangePercent: types.KnownPercent(decimal.Zero),
		})
	}

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
