package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"papertrade/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultPolygonBaseURL = "https://api.polygon.io"

// dailyChartWindow is the trailing range for the default daily chart.
const dailyChartWindow = 720 * 24 * time.Hour

// Polygon is a client for the Polygon aggregates API.
type Polygon struct {
	client  *resty.Client
	apiKey  string
	logger  *zap.Logger
	limiter *rate.Limiter
	now     func() time.Time
}

// NewPolygon creates a new Polygon client.
func NewPolygon(cfg *config.Provider, logger *zap.Logger) *Polygon {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultPolygonBaseURL
	}

	return &Polygon{
		client:  resty.New().SetBaseURL(baseURL),
		apiKey:  cfg.APIKey,
		logger:  logger.Named("polygon"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		now:     time.Now,
	}
}

// aggregates fetches adjusted, ascending bars for one symbol and range.
// from and to are millisecond timestamps (Polygon also accepts dates, which
// pass through untouched on the explicit-range endpoint).
func (c *Polygon) aggregates(ctx context.Context, ticker, timespan, from, to string) (*Aggregates, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/%s/%s/%s", ticker, timespan, from, to)
	c.logger.Debug("Executing request", zap.String("path", path))

	var aggs Aggregates
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"adjusted": "true",
			"sort":     "asc",
			"apiKey":   c.apiKey,
		}).
		SetResult(&aggs).
		ForceContentType("application/json").
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s: %s", ErrUpstream, resp.Status(), resp.String())
	}
	return &aggs, nil
}

// DailyAggregates fetches daily bars for ticker over the trailing
// dailyChartWindow, which is what the long-range chart renders.
func (c *Polygon) DailyAggregates(ctx context.Context, ticker string) (*Aggregates, error) {
	to := c.now()
	from := to.Add(-dailyChartWindow)

	aggs, err := c.aggregates(ctx, ticker, "day",
		strconv.FormatInt(from.UnixMilli(), 10),
		strconv.FormatInt(to.UnixMilli(), 10))
	if err != nil {
		return nil, fmt.Errorf("failed to get daily aggregates for %s: %w", ticker, err)
	}
	return aggs, nil
}

// HourlyAggregates fetches hourly bars for ticker over an explicit range.
func (c *Polygon) HourlyAggregates(ctx context.Context, ticker, from, to string) (*Aggregates, error) {
	aggs, err := c.aggregates(ctx, ticker, "hour", from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get hourly aggregates for %s: %w", ticker, err)
	}
	return aggs, nil
}
