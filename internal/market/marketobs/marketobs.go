package marketobs

import (
	"context"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/logger"
	"asset-advisor/internal/trace"
	"asset-advisor/internal/types"
)

// observableOracle wraps a PriceOracle with observability (logging & tracing)
type observableOracle struct {
	oracle interfaces.PriceOracle
}

// Compile-time interface check
var _ interfaces.PriceOracle = (*observableOracle)(nil)

// Wrap wraps a price oracle with observability middleware
func Wrap(oracle interfaces.PriceOracle) interfaces.PriceOracle {
	return &observableOracle{
		oracle: oracle,
	}
}

// CurrentPrice fetches a live price with observability
func (oo *observableOracle) CurrentPrice(ctx context.Context, symbol string, class types.AssetClass) (decimal.Decimal, error) {
	ctx, span := trace.StartSpan(ctx, "market.CurrentPrice")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching current price", "symbol", symbol, "asset_class", string(class))

	price, err := oo.oracle.CurrentPrice(ctx, symbol, class)
	if err != nil {
		logger.WarnSkip(ctx, 1, "Failed to fetch current price", "symbol", symbol, "asset_class", string(class), "error", err)
		return decimal.Zero, err
	}

	logger.DebugSkip(ctx, 1, "Current price fetched successfully", "symbol", symbol, "price", price.String())
	return price, nil
}
