package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestProfitPercent(t *testing.T) {
	tests := []struct {
		name    string
		avg     float64
		current float64
		want    string
	}{
		{"twenty percent gain", 100, 120, "20"},
		{"four percent gain", 100, 104, "4"},
		{"twenty percent loss", 100, 80, "-20"},
		{"fractional rounding", 3, 4, "33.33"},
		{"zero cost basis floors to zero", 0, 120, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProfitPercent(decimal.NewFromFloat(tt.avg), decimal.NewFromFloat(tt.current))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ProfitPercent(%v, %v) = %s, want %s", tt.avg, tt.current, got, tt.want)
			}
		})
	}
}

func TestProfitPercentRoundsHalfUp(t *testing.T) {
	// (101.005 - 100) / 100 = 1.005% which rounds to 1.01 at 2 decimals
	got := ProfitPercent(decimal.NewFromInt(100), decimal.RequireFromString("101.005"))
	if !got.Equal(decimal.RequireFromString("1.01")) {
		t.Errorf("Expected half-up rounding to 1.01, got %s", got)
	}
}

func TestMonetaryDelta(t *testing.T) {
	got := MonetaryDelta(decimal.NewFromInt(100), decimal.NewFromInt(80), 5)
	if !got.Equal(decimal.NewFromInt(-100)) {
		t.Errorf("Expected -100, got %s", got)
	}

	got = MonetaryDelta(decimal.NewFromInt(100), decimal.NewFromInt(120), 5)
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected 100, got %s", got)
	}
}
