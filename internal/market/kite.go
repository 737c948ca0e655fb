package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// KiteSource fetches last traded prices through the Zerodha Kite Connect API.
// Used instead of stockdata.org when market.stock_source is KITE.
type KiteSource struct {
	kc       *kiteconnect.Client
	exchange string
}

func NewKiteSource(apiKey, accessToken, exchange string) *KiteSource {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	if exchange == "" {
		exchange = "NSE"
	}
	return &KiteSource{kc: kc, exchange: exchange}
}

// Price returns the last traded price for symbol on the configured exchange.
// The Kite SDK does not take a context; ctx is accepted for interface parity.
func (s *KiteSource) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	instrument := s.exchange + ":" + strings.ToUpper(strings.TrimSpace(symbol))

	quotes, err := s.kc.GetLTP(instrument)
	if err != nil {
		return decimal.Zero, fmt.Errorf("kite LTP for %s: %w", instrument, err)
	}

	q, ok := quotes[instrument]
	if !ok || q.LastPrice <= 0 {
		return decimal.Zero, fmt.Errorf("kite LTP for %s: no usable price", instrument)
	}
	return decimal.NewFromFloat(q.LastPrice), nil
}
