package engine

import (
	"context"
	"reflect"
	"testing"

	"asset-advisor/internal/types"
)

func TestTopNFillsFromMarket(t *testing.T) {
	st := &fakeStore{holdings: []types.Holding{
		lot("AAPL", types.AssetStock, 100, 10),
		lot("BTC", types.AssetCrypto, 50000, 1),
	}}
	oracle := &fakeOracle{prices: map[string]float64{
		"AAPL": 120, // +20%
		"BTC":  52500, // +5%
	}}
	cands := &fakeCandidates{
		stocks: []types.MarketCandidate{
			knownCandidate("NVDA", 900, 45.2),
			knownCandidate("MSFT", 425, 18.7),
			knownCandidate("AAPL", 120, 23.4), // duplicate of a held position
		},
		crypto: []types.MarketCandidate{
			knownCandidate("ETH", 3500, 2.1),
		},
	}

	recs, err := newTestEngine(st, oracle, cands).TopN(context.Background(), types.ScopeAll, 5)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("Expected exactly 5 recommendations, got %d", len(recs))
	}

	seen := map[string]bool{}
	for _, rec := range recs {
		if seen[rec.Symbol] {
			t.Errorf("Duplicate symbol %s in results", rec.Symbol)
		}
		seen[rec.Symbol] = true
	}
	if !seen["AAPL"] || !seen["BTC"] {
		t.Errorf("Expected held positions among results, got %v", seen)
	}

	// Descending by percent: NVDA 45.2, AAPL 20 (portfolio), MSFT 18.7, BTC 5, ETH 2.1
	wantOrder := []string{"NVDA", "AAPL", "MSFT", "BTC", "ETH"}
	for i, want := range wantOrder {
		if recs[i].Symbol != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, recs[i].Symbol)
		}
	}

	// Held positions carry a cost basis, market fills do not
	for _, rec := range recs {
		isHeld := rec.Symbol == "AAPL" || rec.Symbol == "BTC"
		if rec.AvgBuyPrice.Valid != isHeld {
			t.Errorf("%s: expected AvgBuyPrice.Valid=%v, got %v", rec.Symbol, isHeld, rec.AvgBuyPrice.Valid)
		}
	}
}

func TestTopNSkipsUnpricedPositions(t *testing.T) {
	st := &fakeStore{holdings: []types.Holding{
		lot("AAPL", types.AssetStock, 100, 10),
		lot("GHOST", types.AssetStock, 10, 5), // no price available
	}}
	oracle := &fakeOracle{prices: map[string]float64{"AAPL": 110}}
	cands := &fakeCandidates{}

	recs, err := newTestEngine(st, oracle, cands).TopN(context.Background(), types.ScopeStocks, 5)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Expected unpriced position to be skipped, got %d results", len(recs))
	}
	if recs[0].Symbol != "AAPL" {
		t.Errorf("Expected AAPL, got %s", recs[0].Symbol)
	}
}

func TestTopNUnknownPercentSortsLast(t *testing.T) {
	st := &fakeStore{}
	oracle := &fakeOracle{}
	cands := &fakeCandidates{
		stocks: []types.MarketCandidate{
			{Symbol: "MYSTERY", ChangePercent: types.UnknownPercent()},
			knownCandidate("TSLA", 420, -12.3),
		},
	}

	recs, err := newTestEngine(st, oracle, cands).TopN(context.Background(), types.ScopeStocks, 5)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(recs))
	}
	if recs[0].Symbol != "TSLA" || recs[1].Symbol != "MYSTERY" {
		t.Errorf("Expected unknown percent last, got order %s, %s", recs[0].Symbol, recs[1].Symbol)
	}
	if recs[1].RiskLevel != types.RiskLow {
		t.Errorf("Expected unknown-percent candidate to classify LOW, got %s", recs[1].RiskLevel)
	}
}

func TestTopNScopeRestriction(t *testing.T) {
	st := &fakeStore{holdings: []types.Holding{
		lot("AAPL", types.AssetStock, 100, 10),
		lot("BTC", types.AssetCrypto, 50000, 1),
	}}
	oracle := &fakeOracle{prices: map[string]float64{"AAPL": 110, "BTC": 52000}}
	cands := &fakeCandidates{}

	recs, err := newTestEngine(st, oracle, cands).TopN(context.Background(), types.ScopeCrypto, 5)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	for _, rec := range recs {
		if rec.Symbol == "AAPL" {
			t.Error("Stock position leaked into crypto-scoped ranking")
		}
	}
}

func TestTopNIdempotent(t *testing.T) {
	st := &fakeStore{holdings: []types.Holding{
		lot("AAPL", types.AssetStock, 100, 10),
	}}
	oracle := &fakeOracle{prices: map[string]float64{"AAPL": 120}}
	cands := &fakeCandidates{stocks: []types.MarketCandidate{
		knownCandidate("NVDA", 900, 45.2),
		knownCandidate("MSFT", 425, 18.7),
	}}
	eng := newTestEngine(st, oracle, cands)

	first, err := eng.TopN(context.Background(), types.ScopeStocks, 3)
	if err != nil {
		t.Fatalf("First TopN failed: %v", err)
	}
	second, err := eng.TopN(context.Background(), types.ScopeStocks, 3)
	if err != nil {
		t.Fatalf("Second TopN failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results on repeated calls:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestTopNRejectsNonPositiveN(t *testing.T) {
	eng := newTestEngine(&fakeStore{}, &fakeOracle{}, &fakeCandidates{})
	if _, err := eng.TopN(context.Background(), types.ScopeAll, 0); err == nil {
		t.Error("Expected error for n=0")
	}
}
