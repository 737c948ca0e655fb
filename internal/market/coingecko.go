package market

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/api"
	"asset-advisor/internal/symbols"
)

// CoinGeckoClient fetches crypto prices and market-cap rankings from CoinGecko.
type CoinGeckoClient struct {
	api *api.Client
}

func NewCoinGeckoClient(timeout time.Duration) *CoinGeckoClient {
	return &CoinGeckoClient{
		api: api.NewClient(
			api.WithBaseURL("https://api.coingecko.com/api/v3"),
			api.WithTimeout(timeout),
			api.WithHeader("Accept", "application/json"),
		),
	}
}

// SimplePrice returns the USD price for a crypto symbol or alias.
func (c *CoinGeckoClient) SimplePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	id := symbols.CoinGeckoID(symbol)
	if id == "" {
		return decimal.Zero, fmt.Errorf("coingecko: empty symbol")
	}

	path := fmt.Sprintf("/simple/price?ids=%s&vs_currencies=usd", url.QueryEscape(id))
	resp, err := c.api.GET(ctx, path)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coingecko price for %s: %w", symbol, err)
	}

	var body map[string]map[string]decimal.Decimal
	if err := resp.ParseJSON(&body); err != nil {
		return decimal.Zero, fmt.Errorf("coingecko price for %s: %w", symbol, err)
	}

	price, ok := body[id]["usd"]
	if !ok || price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("coingecko price for %s: no usable price", symbol)
	}
	return price, nil
}

// CoinMarket is one row of the market-cap ranking feed.
type CoinMarket struct {
	Symbol    string           `json:"symbol"`
	Price     decimal.Decimal  `json:"current_price"`
	Change24h *decimal.Decimal `json:"price_change_percentage_24h"`
}

// Markets returns the top coins by market cap, at most limit entries.
func (c *CoinGeckoClient) Markets(ctx context.Context, limit int) ([]CoinMarket, error) {
	perPage := limit
	if perPage > 100 {
		perPage = 100
	}
	if perPage < 1 {
		perPage = 1
	}

	path := fmt.Sprintf("/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1", perPage)
	resp, err := c.api.GET(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}

	var body []CoinMarket
	if err := resp.ParseJSON(&body); err != nil {
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}

	out := make([]CoinMarket, 0, len(body))
	for _, m := range body {
		sym := strings.ToUpper(strings.TrimSpace(m.Symbol))
		if sym == "" {
			continue
		}
		m.Symbol = sym
		out = append(out, m)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
