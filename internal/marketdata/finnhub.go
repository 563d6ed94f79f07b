// Package marketdata holds the stateless clients for the external quote
// providers. The clients do no caching and no retries: a failed or
// undecodable upstream response surfaces as ErrUpstream and the caller
// reports it as-is.
package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"papertrade/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultFinnhubBaseURL = "https://finnhub.io/api/v1"

// newsWindow is how far back company news is requested.
const newsWindow = 7 * 24 * time.Hour

// maxNewsArticles caps the news list handed to the client.
const maxNewsArticles = 20

// sentimentSince is the fixed start of the insider-sentiment window.
const sentimentSince = "2022-01-01"

// Finnhub is a client for the Finnhub stock API.
type Finnhub struct {
	client  *resty.Client
	token   string
	logger  *zap.Logger
	limiter *rate.Limiter
	now     func() time.Time
}

// NewFinnhub creates a new Finnhub client.
func NewFinnhub(cfg *config.Provider, logger *zap.Logger) *Finnhub {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultFinnhubBaseURL
	}

	return &Finnhub{
		client:  resty.New().SetBaseURL(baseURL),
		token:   cfg.APIKey,
		logger:  logger.Named("finnhub"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		now:     time.Now,
	}
}

// get performs one rate-limited GET and decodes the body into out. The body
// is decoded as JSON no matter what content type the provider reports, so an
// undecodable 200 (a maintenance page, say) fails instead of leaving out at
// its zero value.
func (c *Finnhub) get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	c.logger.Debug("Executing request", zap.String("path", path))
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetQueryParam("token", c.token).
		SetResult(out).
		ForceContentType("application/json").
		Get(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s: %s", ErrUpstream, resp.Status(), resp.String())
	}
	return nil
}

// Quote fetches the current quote for ticker.
func (c *Finnhub) Quote(ctx context.Context, ticker string) (*Quote, error) {
	var quote Quote
	if err := c.get(ctx, "/quote", map[string]string{"symbol": ticker}, &quote); err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", ticker, err)
	}
	return &quote, nil
}

// Profile fetches the company profile for ticker.
func (c *Finnhub) Profile(ctx context.Context, ticker string) (*CompanyProfile, error) {
	var profile CompanyProfile
	if err := c.get(ctx, "/stock/profile2", map[string]string{"symbol": ticker}, &profile); err != nil {
		return nil, fmt.Errorf("failed to get profile for %s: %w", ticker, err)
	}
	return &profile, nil
}

// Search looks up symbols matching q, filtered to common stocks whose
// symbol has no "." suffix (foreign listings and share classes are dropped).
func (c *Finnhub) Search(ctx context.Context, q string) ([]TickerMatch, error) {
	var raw searchResponse
	if err := c.get(ctx, "/search", map[string]string{"q": q}, &raw); err != nil {
		return nil, fmt.Errorf("failed to search for %q: %w", q, err)
	}

	matches := make([]TickerMatch, 0, len(raw.Result))
	for _, r := range raw.Result {
		if r.Type != "Common Stock" || strings.Contains(r.Symbol, ".") {
			continue
		}
		matches = append(matches, TickerMatch{Symbol: r.Symbol, Description: r.Description})
	}
	return matches, nil
}

// News fetches company news for ticker over the trailing week. Items missing
// any of image, url, headline or timestamp are dropped and the remainder is
// capped at maxNewsArticles.
func (c *Finnhub) News(ctx context.Context, ticker string) ([]NewsArticle, error) {
	to := c.now()
	from := to.Add(-newsWindow)

	var raw []NewsArticle
	query := map[string]string{
		"symbol": ticker,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}
	if err := c.get(ctx, "/company-news", query, &raw); err != nil {
		return nil, fmt.Errorf("failed to get news for %s: %w", ticker, err)
	}

	articles := make([]NewsArticle, 0, maxNewsArticles)
	for _, a := range raw {
		if a.Image == "" || a.URL == "" || a.Headline == "" || a.Datetime == 0 {
			continue
		}
		articles = append(articles, a)
		if len(articles) == maxNewsArticles {
			break
		}
	}
	return articles, nil
}

// Recommendations fetches the analyst recommendation trend for ticker.
func (c *Finnhub) Recommendations(ctx context.Context, ticker string) ([]RecommendationTrend, error) {
	var trends []RecommendationTrend
	if err := c.get(ctx, "/stock/recommendation", map[string]string{"symbol": ticker}, &trends); err != nil {
		return nil, fmt.Errorf("failed to get recommendations for %s: %w", ticker, err)
	}
	return trends, nil
}

// InsiderSentiment fetches insider sentiment rows for ticker since
// sentimentSince and reduces them to positive/negative/total sums of the
// mspr and change columns.
func (c *Finnhub) InsiderSentiment(ctx context.Context, ticker string) (*SentimentSummary, error) {
	var raw insiderSentimentResponse
	query := map[string]string{"symbol": ticker, "from": sentimentSince}
	if err := c.get(ctx, "/stock/insider-sentiment", query, &raw); err != nil {
		return nil, fmt.Errorf("failed to get insider sentiment for %s: %w", ticker, err)
	}

	var summary SentimentSummary
	for _, row := range raw.Data {
		if row.MSPR > 0 {
			summary.PositiveMsprSum += row.MSPR
		} else if row.MSPR < 0 {
			summary.NegativeMsprSum += row.MSPR
		}
		summary.TotalMsprSum += row.MSPR

		if row.Change > 0 {
			summary.PositiveChangeSum += row.Change
		} else if row.Change < 0 {
			summary.NegativeChangeSum += row.Change
		}
		summary.TotalChangeSum += row.Change
	}
	return &summary, nil
}

// Peers fetches the peer symbols for ticker.
func (c *Finnhub) Peers(ctx context.Context, ticker string) ([]string, error) {
	var peers []string
	if err := c.get(ctx, "/stock/peers", map[string]string{"symbol": ticker}, &peers); err != nil {
		return nil, fmt.Errorf("failed to get peers for %s: %w", ticker, err)
	}
	return peers, nil
}

// Earnings fetches the quarterly EPS surprises for ticker.
func (c *Finnhub) Earnings(ctx context.Context, ticker string) ([]EarningsSurprise, error) {
	var earnings []EarningsSurprise
	if err := c.get(ctx, "/stock/earnings", map[string]string{"symbol": ticker}, &earnings); err != nil {
		return nil, fmt.Errorf("failed to get earnings for %s: %w", ticker, err)
	}
	return earnings, nil
}
