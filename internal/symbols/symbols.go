// Package symbols canonicalizes ticker and coin aliases so that duplicate
// holdings and market candidates are recognized as the same instrument.
package symbols

import "strings"

// aliases maps lower-cased known aliases to their canonical symbol. Built once
// here; lookups never mutate it.
var aliases = map[string]string{
	"bitcoin":  "BTC",
	"btc-usd":  "BTC",
	"btcusd":   "BTC",
	"ethereum": "ETH",
	"eth-usd":  "ETH",
	"ethusd":   "ETH",
	"solana":   "SOL",
	"sol":      "SOL",
}

// coingeckoIDs maps canonical crypto symbols to CoinGecko coin ids.
var coingeckoIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"ADA":   "cardano",
	"XRP":   "ripple",
	"DOGE":  "dogecoin",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"MATIC": "matic-network",
	"DOT":   "polkadot",
	"LINK":  "chainlink",
	"AVAX":  "avalanche-2",
	"UNI":   "uniswap",
	"LTC":   "litecoin",
}

// Normalize maps a raw symbol to its canonical uppercase form. Unknown inputs
// are upper-cased verbatim; blank input yields the empty string.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if canonical, ok := aliases[strings.ToLower(s)]; ok {
		return canonical
	}
	return strings.ToUpper(s)
}

// KnownCrypto reports whether the symbol (or alias) maps to a known coin.
// Used to guess the asset class when no holdings exist to tell us.
func KnownCrypto(symbol string) bool {
	_, ok := coingeckoIDs[Normalize(symbol)]
	return ok
}

// CoinGeckoID returns the CoinGecko coin id for a crypto symbol or alias.
// Symbols without a known mapping are passed through lower-cased, which
// matches CoinGecko's id scheme for most smaller coins.
func CoinGeckoID(symbol string) string {
	if id, ok := coingeckoIDs[Normalize(symbol)]; ok {
		return id
	}
	return strings.ToLower(strings.TrimSpace(symbol))
}
