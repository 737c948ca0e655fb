package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"asset-advisor/internal/logger"
)

// Headline is one scraped news headline for a symbol.
type Headline struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
	Symbol string `json:"symbol"`
}

// Scraper collects recent headlines for a symbol from public news pages.
type Scraper struct {
	timeout time.Duration
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{timeout: timeout}
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Headlines scrapes Yahoo Finance for symbol headlines, falling back to
// Google News when the primary page yields nothing.
func (s *Scraper) Headlines(ctx context.Context, symbol string, max int) ([]Headline, error) {
	headlines, err := s.scrapeYahoo(ctx, symbol, max)
	if err != nil {
		logger.Warn(ctx, "Primary headline source failed, trying Google News", "symbol", symbol, "error", err)
	}
	if len(headlines) == 0 {
		headlines, err = s.scrapeGoogleNews(ctx, symbol, max)
		if err != nil {
			return nil, err
		}
	}
	return headlines, nil
}

func (s *Scraper) scrapeYahoo(ctx context.Context, symbol string, max int) ([]Headline, error) {
	headlines := []Headline{}

	c := colly.NewCollector(
		colly.AllowedDomains("finance.yahoo.com"),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnHTML("section[data-testid=storyitem], li.js-stream-content", func(e *colly.HTMLElement) {
		if len(headlines) >= max {
			return
		}
		title := strings.TrimSpace(e.ChildText("h3"))
		link := e.ChildAttr("a", "href")
		if title == "" || link == "" {
			return
		}
		if !strings.HasPrefix(link, "http") {
			link = "https://finance.yahoo.com" + link
		}
		headlines = append(headlines, Headline{
			Title:  title,
			URL:    link,
			Source: "YahooFinance",
			Symbol: symbol,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Warn(ctx, "Headline scraping error", "source", "YahooFinance", "url", r.Request.URL.String(), "error", err)
	})

	target := fmt.Sprintf("https://finance.yahoo.com/quote/%s/news", url.PathEscape(strings.ToUpper(symbol)))
	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", target, err)
	}
	c.Wait()

	return headlines, nil
}

func (s *Scraper) scrapeGoogleNews(ctx context.Context, symbol string, max int) ([]Headline, error) {
	headlines := []Headline{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(headlines) >= max {
			return
		}
		title := e.ChildText("h3, h4")
		link := e.ChildAttr("a", "href")
		if title == "" || link == "" {
			return
		}
		// Clean up Google News redirect URL
		if strings.HasPrefix(link, "./articles/") {
			link = "https://news.google.com" + link[1:]
		}
		headlines = append(headlines, Headline{
			Title:  title,
			URL:    link,
			Source: "GoogleNews",
			Symbol: symbol,
		})
	})

	query := url.QueryEscape(symbol + " stock news")
	target := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-US&gl=US&ceid=US:en", query)

	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("failed to scrape Google News: %w", err)
	}
	c.Wait()

	logger.Info(ctx, "Google News scraping completed", "symbol", symbol, "headlines", len(headlines))
	return headlines, nil
}
