package interfaces

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/types"
)

// ErrPriceUnavailable reports that no live price could be obtained. Callers
// decide whether a fallback value is acceptable for their computation; the
// oracle never substitutes one silently.
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceOracle answers current prices for stock and crypto symbols.
type PriceOracle interface {
	CurrentPrice(ctx context.Context, symbol string, class types.AssetClass) (decimal.Decimal, error)
}

// MarketCandidates supplies market-wide ranking feeds used to pad top-N
// results. Both methods fall back to static lists when the live feed fails,
// so they only error on malformed input.
type MarketCandidates interface {
	TopStocks(ctx context.Context, limit int) ([]types.MarketCandidate, error)
	TopCrypto(ctx context.Context, limit int) ([]types.MarketCandidate, error)
}
