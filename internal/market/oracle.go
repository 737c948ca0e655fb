package market

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/logger"
	"asset-advisor/internal/store"
	"asset-advisor/internal/symbols"
	"asset-advisor/internal/types"
)

// stockPricer is the minimal surface an Oracle needs from a stock source.
// Both StockDataClient and KiteSource satisfy it.
type stockPricer interface {
	Price(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type cryptoPricer interface {
	SimplePrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// FallbackTable holds the static prices used when no live quote is reachable.
type FallbackTable struct {
	StockPrices   map[string]decimal.Decimal
	StockDefault  decimal.Decimal
	CryptoPrices  map[string]decimal.Decimal
	CryptoDefault decimal.Decimal
}

// NewFallbackTable builds the static price table from configuration.
func NewFallbackTable(cfg *store.Config) FallbackTable {
	t := FallbackTable{
		StockPrices:   make(map[string]decimal.Decimal, len(cfg.Fallback.StockPrices)),
		StockDefault:  decimal.NewFromFloat(cfg.Fallback.StockDefault),
		CryptoPrices:  make(map[string]decimal.Decimal, len(cfg.Fallback.CryptoPrices)),
		CryptoDefault: decimal.NewFromFloat(cfg.Fallback.CryptoDefault),
	}
	for sym, p := range cfg.Fallback.StockPrices {
		t.StockPrices[symbols.Normalize(sym)] = decimal.NewFromFloat(p)
	}
	for sym, p := range cfg.Fallback.CryptoPrices {
		t.CryptoPrices[symbols.Normalize(sym)] = decimal.NewFromFloat(p)
	}
	return t
}

// Oracle routes price lookups to the right market feed by asset class.
type Oracle struct {
	stocks   stockPricer
	crypto   cryptoPricer
	timeout  time.Duration
	fallback FallbackTable
}

var _ interfaces.PriceOracle = (*Oracle)(nil)

func NewOracle(stocks stockPricer, crypto cryptoPricer, timeout time.Duration, fallback FallbackTable) *Oracle {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Oracle{stocks: stocks, crypto: crypto, timeout: timeout, fallback: fallback}
}

// CurrentPrice returns the live price for symbol, or an error wrapping
// interfaces.ErrPriceUnavailable when no feed can produce one. It never
// substitutes a fallback price; callers decide how to degrade.
func (o *Oracle) CurrentPrice(ctx context.Context, symbol string, class types.AssetClass) (decimal.Decimal, error) {
	symbol = symbols.Normalize(symbol)
	if symbol == "" {
		return decimal.Zero, fmt.Errorf("%w: empty symbol", interfaces.ErrPriceUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var (
		price decimal.Decimal
		err   error
	)
	switch class {
	case types.AssetCrypto:
		price, err = o.crypto.SimplePrice(ctx, symbol)
	default:
		price, err = o.stocks.Price(ctx, symbol)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", interfaces.ErrPriceUnavailable, symbol, err)
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: %s: non-positive quote", interfaces.ErrPriceUnavailable, symbol)
	}
	return price, nil
}

// FallbackPrice returns the configured static price for symbol.
func (o *Oracle) FallbackPrice(symbol string, class types.AssetClass) decimal.Decimal {
	symbol = symbols.Normalize(symbol)
	if class == types.AssetCrypto {
		if p, ok := o.fallback.CryptoPrices[symbol]; ok {
			return p
		}
		return o.fallback.CryptoDefault
	}
	if p, ok := o.fallback.StockPrices[symbol]; ok {
		return p
	}
	return o.fallback.StockDefault
}

// CurrentPriceOrFallback returns the live price when reachable and the static
// fallback otherwise. Used by surfaces that must always render a number, such
// as the holdings dashboard.
func (o *Oracle) CurrentPriceOrFallback(ctx context.Context, symbol string, class types.AssetClass) decimal.Decimal {
	price, err := o.CurrentPrice(ctx, symbol, class)
	if err != nil {
		fb := o.FallbackPrice(symbol, class)
		logger.Warn(ctx, "Live price unavailable, using fallback",
			"symbol", symbols.Normalize(symbol), "asset_class", string(class), "fallback_price", fb.String())
		return fb
	}
	return price
}
