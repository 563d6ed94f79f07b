package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupFinnhub creates a test server and a Finnhub client pointed at it with
// a frozen clock.
func setupFinnhub(handler http.Handler, now time.Time) (*Finnhub, *httptest.Server) {
	server := httptest.NewServer(handler)

	fh := &Finnhub{
		client:  resty.New().SetBaseURL(server.URL),
		token:   "test_token",
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
		now:     func() time.Time { return now },
	}
	return fh, server
}

func TestQuote(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/quote", r.URL.Path)
			assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
			assert.Equal(t, "test_token", r.URL.Query().Get("token"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"c":227.5,"d":-1.2,"dp":-0.52,"h":229.9,"l":226.1,"o":228.0,"pc":228.7,"t":1724400000}`))
		})

		fh, server := setupFinnhub(handler, time.Now())
		defer server.Close()

		quote, err := fh.Quote(context.Background(), "AAPL")
		require.NoError(t, err)
		assert.Equal(t, 227.5, quote.Current)
		assert.Equal(t, 228.7, quote.PreviousClose)
		assert.Equal(t, int64(1724400000), quote.Timestamp)
	})

	t.Run("APIError", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"API limit reached"}`))
		})

		fh, server := setupFinnhub(handler, time.Now())
		defer server.Close()

		_, err := fh.Quote(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("NonJSONBody", func(t *testing.T) {
		// A 200 whose body does not decode must not pass through as a
		// zero-valued quote.
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html>maintenance page</html>`))
		})

		fh, server := setupFinnhub(handler, time.Now())
		defer server.Close()

		_, err := fh.Quote(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrUpstream)
	})
}

func TestSearch(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "apple", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"count": 4,
			"result": [
				{"description": "Apple Inc", "displaySymbol": "AAPL", "symbol": "AAPL", "type": "Common Stock"},
				{"description": "Apple Hospitality", "displaySymbol": "APLE", "symbol": "APLE", "type": "Common Stock"},
				{"description": "Apple Inc 1x ETP", "displaySymbol": "AAPL.L", "symbol": "AAPL.L", "type": "Common Stock"},
				{"description": "Apple Bond", "displaySymbol": "AAPL24", "symbol": "AAPL24", "type": "Bond"}
			]
		}`))
	})

	fh, server := setupFinnhub(handler, time.Now())
	defer server.Close()

	matches, err := fh.Search(context.Background(), "apple")
	require.NoError(t, err)

	// Non-common-stock types and dotted symbols are filtered out.
	require.Len(t, matches, 2)
	assert.Equal(t, TickerMatch{Symbol: "AAPL", Description: "Apple Inc"}, matches[0])
	assert.Equal(t, TickerMatch{Symbol: "APLE", Description: "Apple Hospitality"}, matches[1])
}

func TestNews(t *testing.T) {
	now := time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)

	article := func(id int64) NewsArticle {
		return NewsArticle{
			ID:       id,
			Datetime: now.Unix(),
			Headline: fmt.Sprintf("headline %d", id),
			Image:    "https://example.com/img.png",
			URL:      "https://example.com/article",
		}
	}

	t.Run("FiltersIncompleteArticles", func(t *testing.T) {
		missingImage := article(3)
		missingImage.Image = ""
		missingURL := article(4)
		missingURL.URL = ""
		missingHeadline := article(5)
		missingHeadline.Headline = ""
		missingTime := article(6)
		missingTime.Datetime = 0

		payload := []NewsArticle{article(1), missingImage, missingURL, missingHeadline, missingTime, article(2)}

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/company-news", r.URL.Path)
			assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
			// Trailing 7-day window.
			assert.Equal(t, "2024-08-13", r.URL.Query().Get("from"))
			assert.Equal(t, "2024-08-20", r.URL.Query().Get("to"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(payload)
		})

		fh, server := setupFinnhub(handler, now)
		defer server.Close()

		articles, err := fh.News(context.Background(), "AAPL")
		require.NoError(t, err)
		require.Len(t, articles, 2)
		assert.Equal(t, int64(1), articles[0].ID)
		assert.Equal(t, int64(2), articles[1].ID)
	})

	t.Run("CapsAtTwenty", func(t *testing.T) {
		payload := make([]NewsArticle, 0, 30)
		for i := int64(1); i <= 30; i++ {
			payload = append(payload, article(i))
		}

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(payload)
		})

		fh, server := setupFinnhub(handler, now)
		defer server.Close()

		articles, err := fh.News(context.Background(), "AAPL")
		require.NoError(t, err)
		assert.Len(t, articles, maxNewsArticles)
	})
}

func TestInsiderSentiment(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/insider-sentiment", r.URL.Path)
		assert.Equal(t, sentimentSince, r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"symbol": "AAPL",
			"data": [
				{"symbol": "AAPL", "year": 2024, "month": 1, "mspr": 2.5, "change": 100},
				{"symbol": "AAPL", "year": 2024, "month": 2, "mspr": -1.5, "change": -40},
				{"symbol": "AAPL", "year": 2024, "month": 3, "mspr": 4.0, "change": -10}
			]
		}`))
	})

	fh, server := setupFinnhub(handler, time.Now())
	defer server.Close()

	summary, err := fh.InsiderSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.InDelta(t, 6.5, summary.PositiveMsprSum, 1e-9)
	assert.InDelta(t, -1.5, summary.NegativeMsprSum, 1e-9)
	assert.InDelta(t, 5.0, summary.TotalMsprSum, 1e-9)
	assert.InDelta(t, 100, summary.PositiveChangeSum, 1e-9)
	assert.InDelta(t, -50, summary.NegativeChangeSum, 1e-9)
	assert.InDelta(t, 50, summary.TotalChangeSum, 1e-9)
}

func TestPeers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/peers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["AAPL","MSFT","GOOGL"]`))
	})

	fh, server := setupFinnhub(handler, time.Now())
	defer server.Close()

	peers, err := fh.Peers(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL"}, peers)
}
