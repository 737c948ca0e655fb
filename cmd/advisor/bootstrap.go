package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"asset-advisor/internal/chat"
	"asset-advisor/internal/engine"
	"asset-advisor/internal/engine/engineobs"
	"asset-advisor/internal/insight/insightobs"
	"asset-advisor/internal/insight/noop"
	"asset-advisor/internal/insight/openai"
	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/logger"
	"asset-advisor/internal/market"
	"asset-advisor/internal/market/marketobs"
	"asset-advisor/internal/news"
	"asset-advisor/internal/report"
	"asset-advisor/internal/server"
	"asset-advisor/internal/store"
	"asset-advisor/internal/trace"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("ADVISOR_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeMarket builds the price oracle and candidate feeds with observability
func initializeMarket(ctx context.Context, cfg *store.Config) (*market.Oracle, interfaces.PriceOracle, interfaces.MarketCandidates) {
	timeout := time.Duration(cfg.Market.QuoteTimeout) * time.Second

	stockData := market.NewStockDataClient(os.Getenv("STOCKDATA_API_KEY"), timeout)
	coinGecko := market.NewCoinGeckoClient(timeout)

	var oracle *market.Oracle
	fallback := market.NewFallbackTable(cfg)
	switch cfg.Market.StockSource {
	case "KITE":
		logger.Info(ctx, "Using Kite Connect for stock prices", "exchange", cfg.Market.Exchange)
		kite := market.NewKiteSource(os.Getenv("KITE_API_KEY"), os.Getenv("KITE_ACCESS_TOKEN"), cfg.Market.Exchange)
		oracle = market.NewOracle(kite, coinGecko, timeout, fallback)
	default:
		logger.Info(ctx, "Using stockdata.org for stock prices")
		oracle = market.NewOracle(stockData, coinGecko, timeout, fallback)
	}

	candidates := market.NewCandidates(stockData, coinGecko, cfg)

	// Wrap with observability middleware
	return oracle, marketobs.Wrap(oracle), candidates
}

// initializeInsighter initializes and returns the LLM insighter with observability
func initializeInsighter(ctx context.Context, cfg *store.Config) interfaces.Insighter {
	var insighter interfaces.Insighter

	switch cfg.Insight.Provider {
	case "OPENAI":
		insighter = openai.NewInsighter(cfg)
	default:
		insighter = noop.NewInsighter()
		logger.Warn(ctx, "No insight provider configured - chat replies carry no market remarks")
	}

	// Wrap with observability middleware
	return insightobs.Wrap(insighter)
}

// initializeAdvisor initializes and returns the advisor engine with observability
func initializeAdvisor(cfg *store.Config, holdings *store.Holdings, oracle interfaces.PriceOracle, candidates interfaces.MarketCandidates) interfaces.Advisor {
	// Create base engine
	eng := engine.New(cfg, holdings, oracle, candidates)

	// Wrap with observability middleware
	return engineobs.Wrap(eng)
}

// initializeServer wires all services into the HTTP server
func initializeServer(cfg *store.Config, holdings *store.Holdings, advisor interfaces.Advisor, oracle *market.Oracle, insighter interfaces.Insighter) *server.Server {
	newsSvc := news.NewService(cfg)
	chatSvc := chat.NewService(advisor, holdings, insighter, newsSvc)
	reportSvc := report.NewService(cfg, holdings, oracle)
	return server.New(cfg, holdings, advisor, oracle, chatSvc, newsSvc, reportSvc)
}
