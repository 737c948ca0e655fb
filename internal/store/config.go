package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`

	Market struct {
		StockSource  string `yaml:"stock_source"` // STOCKDATA or KITE
		Exchange     string `yaml:"exchange"`     // KITE only
		QuoteTimeout int    `yaml:"quote_timeout_seconds"`
	} `yaml:"market"`

	Risk struct {
		HighPct   float64 `yaml:"high_pct"`
		MediumPct float64 `yaml:"medium_pct"`
	} `yaml:"risk"`

	Fallback struct {
		StockPrices      map[string]float64 `yaml:"stock_prices"`
		StockDefault     float64            `yaml:"stock_default"`
		CryptoPrices     map[string]float64 `yaml:"crypto_prices"`
		CryptoDefault    float64            `yaml:"crypto_default"`
		StockPerformance map[string]float64 `yaml:"stock_performance"`
	} `yaml:"fallback"`

	Candidates struct {
		Stocks []string `yaml:"stocks"`
		Crypto []string `yaml:"crypto"`
	} `yaml:"candidates"`

	Insight struct {
		Provider    string  `yaml:"provider"` // OPENAI or NONE
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"insight"`

	News struct {
		Enabled      bool `yaml:"enabled"`
		MaxHeadlines int  `yaml:"max_headlines"`
		CacheMinutes int  `yaml:"cache_minutes"`
	} `yaml:"news"`
}

func (c *Config) Validate() error {
	if c.Market.StockSource != "STOCKDATA" && c.Market.StockSource != "KITE" {
		return fmt.Errorf("invalid market.stock_source '%s': must be 'STOCKDATA' or 'KITE'", c.Market.StockSource)
	}
	if c.Risk.HighPct <= 0 || c.Risk.MediumPct <= 0 {
		return fmt.Errorf("risk thresholds must be positive, got high=%.2f medium=%.2f", c.Risk.HighPct, c.Risk.MediumPct)
	}
	if c.Risk.MediumPct >= c.Risk.HighPct {
		return fmt.Errorf("risk.medium_pct (%.2f) must be below risk.high_pct (%.2f)", c.Risk.MediumPct, c.Risk.HighPct)
	}
	if len(c.Candidates.Stocks) == 0 {
		return fmt.Errorf("candidates.stocks cannot be empty")
	}
	if len(c.Candidates.Crypto) == 0 {
		return fmt.Errorf("candidates.crypto cannot be empty")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// DefaultConfig returns a fully defaulted configuration, used by tests and by
// LoadConfig for any section the file leaves out.
func DefaultConfig() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DBPath == "" {
		c.DBPath = "assets.db"
	}
	if c.Market.StockSource == "" {
		c.Market.StockSource = "STOCKDATA"
	}
	if c.Market.Exchange == "" {
		c.Market.Exchange = "NSE"
	}
	if c.Market.QuoteTimeout == 0 {
		c.Market.QuoteTimeout = 10
	}
	if c.Risk.HighPct == 0 {
		c.Risk.HighPct = 20
	}
	if c.Risk.MediumPct == 0 {
		c.Risk.MediumPct = 5
	}
	if len(c.Candidates.Stocks) == 0 {
		c.Candidates.Stocks = []string{
			"MSFT", "NVDA", "AAPL", "GOOGL", "AMZN", "META", "TSLA", "AVGO",
			"LLY", "JPM", "V", "WMT", "UNH", "MA", "PG",
		}
	}
	if len(c.Candidates.Crypto) == 0 {
		c.Candidates.Crypto = []string{"BTC", "ETH", "SOL", "BNB", "XRP", "ADA", "AVAX", "DOGE", "DOT", "LINK"}
	}
	if c.Fallback.StockPrices == nil {
		c.Fallback.StockPrices = map[string]float64{
			"AAPL":  235.82,
			"MSFT":  425.50,
			"GOOGL": 185.20,
			"TSLA":  420.15,
		}
	}
	if c.Fallback.StockDefault == 0 {
		c.Fallback.StockDefault = 150.00
	}
	if c.Fallback.CryptoPrices == nil {
		c.Fallback.CryptoPrices = map[string]float64{
			"BTC":  67000,
			"ETH":  3500,
			"SOL":  180,
			"ADA":  0.55,
			"XRP":  0.62,
			"DOGE": 0.15,
		}
	}
	if c.Fallback.CryptoDefault == 0 {
		c.Fallback.CryptoDefault = 100
	}
	if c.Fallback.StockPerformance == nil {
		c.Fallback.StockPerformance = map[string]float64{
			"NVDA":  45.2,
			"MSFT":  18.7,
			"TSLA":  -12.3,
			"AAPL":  23.4,
			"GOOGL": 15.8,
			"AMZN":  12.1,
			"META":  28.4,
			"AVGO":  35.6,
		}
	}
	if c.Insight.Provider == "" {
		c.Insight.Provider = "NONE"
	}
	if c.Insight.Model == "" {
		c.Insight.Model = "gpt-4o-mini"
	}
	if c.Insight.MaxTokens == 0 {
		c.Insight.MaxTokens = 150
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 5
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 60
	}
}
