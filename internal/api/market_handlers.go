package api

import (
	"net/http"

	"papertrade/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondUpstreamError reports a provider failure with the legacy envelope.
// The gateway is a transparent proxy, so there is no retry and no partial
// result: the caller gets a 500 with the upstream detail.
func (s *Server) respondUpstreamError(c *gin.Context, endpoint string, err error) {
	metrics.UpstreamErrors.WithLabelValues(endpoint).Inc()
	s.logger.Warn("Upstream request failed", zap.String("endpoint", endpoint), zap.Error(err))
	respondError(c, http.StatusInternalServerError, err.Error())
}

func (s *Server) quote(c *gin.Context) {
	quote, err := s.finnhub.Quote(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondUpstreamError(c, "quote", err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (s *Server) profile(c *gin.Context) {
	profile, err := s.finnhub.Profile(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondUpstreamError(c, "profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) search(c *gin.Context) {
	matches, err := s.finnhub.Search(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondUpstreamError(c, "search", err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (s *Server) news(c *gin.Context) {
	articles, err := s.finnhub.News(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondUpstreamError(c, "news", err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (s *Server) recommendations(c *gin.Context) {
	trends, err := s.finnhub.Recommendations(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondUpstreamError(c, "recommendations", err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

func (s *Server) sentiment(c *gin.Context) {
	summary, err := s.finnhub.InsiderSentiment(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondUpstreamError(c, "sentiment", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) peers(c *gin.Context) {
	peers, err := s.finnhub.Peers(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondUpstreamError(c, "peers", err)
		return
	}
	c.JSON(http.StatusOK, peers)
}

func (s *Server) earnings(c *gin.Context) {
	earnings, err := s.finnhub.Earnings(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondUpstreamError(c, "earnings", err)
		return
	}
	c.JSON(http.StatusOK, earnings)
}

func (s *Server) historicalDaily(c *gin.Context) {
	aggs, err := s.polygon.DailyAggregates(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondUpstreamError(c, "historical", err)
		return
	}
	c.JSON(http.StatusOK, aggs)
}

func (s *Server) historicalRange(c *gin.Context) {
	aggs, err := s.polygon.HourlyAggregates(c.Request.Context(),
		c.Param("ticker"), c.Param("from"), c.Param("to"))
	if err != nil {
		s.respondUpstreamError(c, "historical", err)
		return
	}
	c.JSON(http.StatusOK, aggs)
}
