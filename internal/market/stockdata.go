package market

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/api"
	"asset-advisor/internal/types"
)

// StockDataClient fetches stock quotes from stockdata.org.
type StockDataClient struct {
	api    *api.Client
	apiKey string
}

// NewStockDataClient creates a stockdata.org client. The API key comes from
// the STOCKDATA_API_KEY environment variable at the call site.
func NewStockDataClient(apiKey string, timeout time.Duration) *StockDataClient {
	return &StockDataClient{
		api: api.NewClient(
			api.WithBaseURL("https://api.stockdata.org/v1"),
			api.WithTimeout(timeout),
			api.WithHeader("Accept", "application/json"),
		),
		apiKey: apiKey,
	}
}

type stockDataResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Data []struct {
		Ticker             string           `json:"ticker"`
		Price              *decimal.Decimal `json:"price"`
		PreviousClosePrice *decimal.Decimal `json:"previous_close_price"`
		DayChange          *decimal.Decimal `json:"day_change"`
	} `json:"data"`
}

// Quote fetches the full quote (price plus day change percent) for a symbol.
func (c *StockDataClient) Quote(ctx context.Context, symbol string) (types.StockQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return types.StockQuote{}, fmt.Errorf("stockdata: empty symbol")
	}
	if c.apiKey == "" {
		return types.StockQuote{}, fmt.Errorf("stockdata: no API key configured")
	}

	path := fmt.Sprintf("/data/quote?symbols=%s&api_token=%s", url.QueryEscape(symbol), url.QueryEscape(c.apiKey))
	resp, err := c.api.GET(ctx, path)
	if err != nil {
		return types.StockQuote{}, fmt.Errorf("stockdata quote for %s: %w", symbol, err)
	}

	var body stockDataResponse
	if err := resp.ParseJSON(&body); err != nil {
		return types.StockQuote{}, fmt.Errorf("stockdata quote for %s: %w", symbol, err)
	}
	if body.Error != nil {
		return types.StockQuote{}, fmt.Errorf("stockdata quote for %s: %s", symbol, body.Error.Message)
	}
	if len(body.Data) == 0 {
		return types.StockQuote{}, fmt.Errorf("stockdata quote for %s: empty data", symbol)
	}

	first := body.Data[0]
	price := first.Price
	if price == nil {
		price = first.PreviousClosePrice
	}
	if price == nil || price.LessThanOrEqual(decimal.Zero) {
		return types.StockQuote{}, fmt.Errorf("stockdata quote for %s: no usable price", symbol)
	}

	dayChange := decimal.Zero
	if first.DayChange != nil {
		dayChange = *first.DayChange
	}

	return types.StockQuote{Symbol: symbol, Price: *price, DayChangePercent: dayChange}, nil
}

// Price fetches the current price for a symbol.
func (c *StockDataClient) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := c.Quote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}
