package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}

	if cfg.Risk.HighPct != 20 || cfg.Risk.MediumPct != 5 {
		t.Errorf("Expected default risk thresholds 20/5, got %v/%v", cfg.Risk.HighPct, cfg.Risk.MediumPct)
	}
	if len(cfg.Candidates.Stocks) != 15 {
		t.Errorf("Expected 15 default stock candidates, got %d", len(cfg.Candidates.Stocks))
	}
	if len(cfg.Candidates.Crypto) != 10 {
		t.Errorf("Expected 10 default crypto candidates, got %d", len(cfg.Candidates.Crypto))
	}
	if cfg.Fallback.StockDefault != 150.00 {
		t.Errorf("Expected stock fallback default 150, got %v", cfg.Fallback.StockDefault)
	}
}

func TestValidateRejectsBadStockSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Market.StockSource = "BLOOMBERG"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for unknown stock source")
	}
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Risk.HighPct = 5
	cfg.Risk.MediumPct = 20
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error when medium_pct >= high_pct")
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("listen_addr: \":9090\"\nrisk:\n  high_pct: 30\n")
	if err := os.WriteFile(path, partial, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("Expected listen_addr from file, got %s", cfg.ListenAddr)
	}
	if cfg.Risk.HighPct != 30 {
		t.Errorf("Expected high_pct from file, got %v", cfg.Risk.HighPct)
	}
	if cfg.Risk.MediumPct != 5 {
		t.Errorf("Expected defaulted medium_pct 5, got %v", cfg.Risk.MediumPct)
	}
	if cfg.Market.StockSource != "STOCKDATA" {
		t.Errorf("Expected defaulted stock source, got %s", cfg.Market.StockSource)
	}
}
