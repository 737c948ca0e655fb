package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"asset-advisor/internal/types"
)

func openTestStore(t *testing.T) *Holdings {
	t.Helper()
	s, err := OpenHoldings(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenHoldings failed: %v", err)
	}
	return s
}

func addLot(t *testing.T, s *Holdings, symbol string, class types.AssetClass, price float64, qty int) types.Holding {
	t.Helper()
	now := time.Now()
	h := types.Holding{
		AssetClass:     class,
		Symbol:         symbol,
		BuyPrice:       decimal.NewFromFloat(price),
		Qty:            qty,
		CurrentPrice:   decimal.NewFromFloat(price),
		CurrentUpdated: now,
		LastUpdated:    now,
	}
	if err := s.Save(context.Background(), &h); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return h
}

func TestSaveAndFind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	addLot(t, s, "AAPL", types.AssetStock, 100, 10)
	addLot(t, s, "BTC", types.AssetCrypto, 50000, 1)

	all, err := s.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 holdings, got %d", len(all))
	}

	stocks, err := s.FindByAssetClass(ctx, types.AssetStock)
	if err != nil {
		t.Fatalf("FindByAssetClass failed: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Symbol != "AAPL" {
		t.Errorf("Expected only AAPL in stock class, got %v", stocks)
	}

	aapl, err := s.FindBySymbol(ctx, "AAPL")
	if err != nil {
		t.Fatalf("FindBySymbol failed: %v", err)
	}
	if len(aapl) != 1 {
		t.Fatalf("Expected 1 AAPL lot, got %d", len(aapl))
	}
	if !aapl[0].BuyPrice.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Buy price round trip failed, got %s", aapl[0].BuyPrice)
	}
}

func TestApplySellWalksLotsOldestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := addLot(t, s, "AAPL", types.AssetStock, 100, 5)
	second := addLot(t, s, "AAPL", types.AssetStock, 120, 5)

	sold, err := s.ApplySell(ctx, "AAPL", 7, decimal.NewFromInt(130))
	if err != nil {
		t.Fatalf("ApplySell failed: %v", err)
	}
	if sold != 7 {
		t.Fatalf("Expected 7 units sold, got %d", sold)
	}

	got1, err := s.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got1.Qty != 0 {
		t.Errorf("Expected oldest lot emptied, qty=%d", got1.Qty)
	}
	if !got1.SellingPrice.Valid || !got1.SellingPrice.Decimal.Equal(decimal.NewFromInt(130)) {
		t.Errorf("Expected emptied lot stamped with selling price, got %v", got1.SellingPrice)
	}
	if got1.SellingDate == nil {
		t.Error("Expected emptied lot stamped with selling date")
	}

	got2, err := s.FindByID(ctx, second.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got2.Qty != 3 {
		t.Errorf("Expected 3 units left in newer lot, got %d", got2.Qty)
	}
	if got2.SellingDate != nil {
		t.Error("Partially sold lot should not carry a selling date")
	}
}

func TestApplySellMatchesAliasLots(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	aliased := addLot(t, s, "bitcoin", types.AssetCrypto, 50000, 2)
	canonical := addLot(t, s, "BTC", types.AssetCrypto, 60000, 1)

	sold, err := s.ApplySell(ctx, "BTC", 3, decimal.NewFromInt(70000))
	if err != nil {
		t.Fatalf("ApplySell failed: %v", err)
	}
	if sold != 3 {
		t.Fatalf("Expected alias lots to count toward the sale, sold %d of 3", sold)
	}

	got, err := s.FindByID(ctx, aliased.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Qty != 0 || got.SellingDate == nil {
		t.Errorf("Expected aliased lot emptied and stamped, qty=%d", got.Qty)
	}

	got, err = s.FindByID(ctx, canonical.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Qty != 0 {
		t.Errorf("Expected canonical lot emptied too, qty=%d", got.Qty)
	}
}

func TestApplySellMoreThanAvailable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	addLot(t, s, "AAPL", types.AssetStock, 100, 5)

	sold, err := s.ApplySell(ctx, "AAPL", 10, decimal.NewFromInt(110))
	if err != nil {
		t.Fatalf("ApplySell failed: %v", err)
	}
	if sold != 5 {
		t.Errorf("Expected at most 5 units sold, got %d", sold)
	}
}
