package news

import (
	"context"
	"sync"
	"time"

	"asset-advisor/internal/logger"
	"asset-advisor/internal/store"
)

// headlineFetcher lets tests swap the network scraper out.
type headlineFetcher interface {
	Headlines(ctx context.Context, symbol string, max int) ([]Headline, error)
}

// Service provides per-symbol headlines with caching. Scraping failures never
// propagate; a symbol without reachable news yields an empty list.
type Service struct {
	fetcher headlineFetcher
	cache   *headlineCache
	max     int
	enabled bool
}

// headlineCache stores scraped headlines temporarily
type headlineCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	headlines []Headline
	timestamp time.Time
}

func newHeadlineCache(ttl time.Duration) *headlineCache {
	cache := &headlineCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	// Start cleanup goroutine
	go cache.cleanupLoop()

	return cache
}

func (c *headlineCache) get(symbol string) ([]Headline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[symbol]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.headlines, true
}

func (c *headlineCache) set(symbol string, headlines []Headline) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[symbol] = &cacheEntry{
		headlines: headlines,
		timestamp: time.Now(),
	}
}

func (c *headlineCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *headlineCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for symbol, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, symbol)
		}
	}
}

// NewService creates the headline service from configuration.
func NewService(cfg *store.Config) *Service {
	ttl := time.Duration(cfg.News.CacheMinutes) * time.Minute
	return &Service{
		fetcher: NewScraper(30 * time.Second),
		cache:   newHeadlineCache(ttl),
		max:     cfg.News.MaxHeadlines,
		enabled: cfg.News.Enabled,
	}
}

// Headlines returns cached or freshly scraped headlines for a symbol.
func (s *Service) Headlines(ctx context.Context, symbol string) ([]Headline, error) {
	if !s.enabled {
		return nil, nil
	}

	if cached, ok := s.cache.get(symbol); ok {
		logger.Debug(ctx, "Using cached headlines", "symbol", symbol, "count", len(cached))
		return cached, nil
	}

	logger.Info(ctx, "Fetching fresh headlines", "symbol", symbol)
	headlines, err := s.fetcher.Headlines(ctx, symbol, s.max)
	if err != nil {
		logger.Warn(ctx, "Failed to fetch headlines, returning none", "symbol", symbol, "error", err)
		return nil, nil
	}

	s.cache.set(symbol, headlines)
	return headlines, nil
}

// ClearCache removes all cached headlines
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}
