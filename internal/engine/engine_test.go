package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/store"
	"asset-advisor/internal/types"
)

// fakeStore serves a fixed holdings snapshot.
type fakeStore struct {
	holdings []types.Holding
}

func (f *fakeStore) FindAll(ctx context.Context) ([]types.Holding, error) {
	return f.holdings, nil
}

func (f *fakeStore) FindByAssetClass(ctx context.Context, class types.AssetClass) ([]types.Holding, error) {
	var out []types.Holding
	for _, h := range f.holdings {
		if h.AssetClass == class {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeStore) FindBySymbol(ctx context.Context, symbol string) ([]types.Holding, error) {
	var out []types.Holding
	for _, h := range f.holdings {
		if h.Symbol == symbol {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id uint) (types.Holding, error) {
	for _, h := range f.holdings {
		if h.ID == id {
			return h, nil
		}
	}
	return types.Holding{}, fmt.Errorf("holding %d not found", id)
}

func (f *fakeStore) Save(ctx context.Context, h *types.Holding) error { return nil }

// fakeOracle answers from a fixed price table and counts lookups so tests can
// assert that terminal states skip price fetching.
type fakeOracle struct {
	prices map[string]float64
	calls  int
}

func (f *fakeOracle) CurrentPrice(ctx context.Context, symbol string, class types.AssetClass) (decimal.Decimal, error) {
	f.calls++
	p, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", interfaces.ErrPriceUnavailable, symbol)
	}
	return decimal.NewFromFloat(p), nil
}

type fakeCandidates struct {
	stocks []types.MarketCandidate
	crypto []types.MarketCandidate
}

func (f *fakeCandidates) TopStocks(ctx context.Context, limit int) ([]types.MarketCandidate, error) {
	return f.stocks, nil
}

func (f *fakeCandidates) TopCrypto(ctx context.Context, limit int) ([]types.MarketCandidate, error) {
	return f.crypto, nil
}

func newTestEngine(st *fakeStore, oracle *fakeOracle, cands *fakeCandidates) *Engine {
	return New(store.DefaultConfig(), st, oracle, cands)
}

func lot(symbol string, class types.AssetClass, buyPrice float64, qty int) types.Holding {
	return types.Holding{
		AssetClass: class,
		Symbol:     symbol,
		BuyPrice:   decimal.NewFromFloat(buyPrice),
		Qty:        qty,
	}
}

func knownCandidate(symbol string, price, change float64) types.MarketCandidate {
	return types.MarketCandidate{
		Symbol:        symbol,
		Price:         decimal.NewNullDecimal(decimal.NewFromFloat(price)),
		ChangePercent: types.KnownPercent(decimal.NewFromFloat(change)),
	}
}
