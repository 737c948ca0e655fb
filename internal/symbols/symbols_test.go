package symbols

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"bitcoin", "BTC"},
		{"Bitcoin", "BTC"},
		{"BTC-USD", "BTC"},
		{"btcusd", "BTC"},
		{"ethereum", "ETH"},
		{"ETH-usd", "ETH"},
		{"solana", "SOL"},
		{"sol", "SOL"},
		{"aapl", "AAPL"},
		{"  msft  ", "MSFT"},
		{"UNKNOWN", "UNKNOWN"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCoinGeckoID(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"BTC", "bitcoin"},
		{"bitcoin", "bitcoin"},
		{"ETH", "ethereum"},
		{"AVAX", "avalanche-2"},
		{"NEWCOIN", "newcoin"},
	}

	for _, tt := range tests {
		if got := CoinGeckoID(tt.symbol); got != tt.want {
			t.Errorf("CoinGeckoID(%q) = %q, want %q", tt.symbol, got, tt.want)
		}
	}
}

func TestKnownCrypto(t *testing.T) {
	if !KnownCrypto("btc-usd") {
		t.Error("Expected btc-usd alias to be a known coin")
	}
	if KnownCrypto("AAPL") {
		t.Error("Expected AAPL to not be a known coin")
	}
}
