package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-advisor/internal/logger"
	"asset-advisor/internal/store"
	"asset-advisor/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	must(err)

	holdings, err := store.OpenHoldings(cfg.DBPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open holdings store", err, "path", cfg.DBPath)
		os.Exit(1)
	}

	oracle, obsOracle, candidates := initializeMarket(ctx, cfg)
	insighter := initializeInsighter(ctx, cfg)
	advisor := initializeAdvisor(cfg, holdings, obsOracle, candidates)
	srv := initializeServer(cfg, holdings, advisor, oracle, insighter)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() { errc <- srv.Run() }()

	logger.Info(ctx, "Asset advisor started", "addr", cfg.ListenAddr, "db", cfg.DBPath)

	select {
	case sig := <-sigc:
		logger.Info(ctx, "Shutdown signal received", "signal", sig.String())
	case err := <-errc:
		if err != nil {
			logger.ErrorWithErr(ctx, "HTTP server failed", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Graceful shutdown failed", err)
	}

	_ = trace.Shutdown(shutdownCtx)
	_ = logger.Shutdown(shutdownCtx)
	logger.Info(context.Background(), "Asset advisor stopped")
}
