// Package engine implements the recommendation and risk assessment core:
// holdings aggregation, profit math, risk classification, top-N ranking with
// market fill, and per-order buy/sell evaluation. Each call is stateless;
// the engine reads holdings snapshots and never writes.
package engine

import (
	"asset-advisor/internal/interfaces"
	"asset-advisor/internal/store"
)

type Engine struct {
	store      interfaces.HoldingsStore
	oracle     interfaces.PriceOracle
	candidates interfaces.MarketCandidates
	classifier *Classifier
}

var _ interfaces.Advisor = (*Engine)(nil)

func New(cfg *store.Config, st interfaces.HoldingsStore, oracle interfaces.PriceOracle, candidates interfaces.MarketCandidates) *Engine {
	return &Engine{
		store:      st,
		oracle:     oracle,
		candidates: candidates,
		classifier: NewClassifier(cfg.Risk.HighPct, cfg.Risk.MediumPct),
	}
}
