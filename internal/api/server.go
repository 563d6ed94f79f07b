// Package api exposes the ledger and the market-data gateway over HTTP/JSON
// for the mobile client. Routes, body field names and response envelopes
// match what the client already decodes.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"papertrade/internal/config"
	"papertrade/internal/ledger"
	"papertrade/internal/marketdata"
	"papertrade/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// tickerPattern constrains tickers in request bodies. Dots and hyphens are
// admitted for class shares and foreign listings (BRK-B, BRK.B). Path tickers
// are forwarded to the providers as given.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.-]{0,11}$`)

// Server wires the ledger service and the provider clients into a gin router.
type Server struct {
	logger  *zap.Logger
	cfg     *config.Config
	ledger  *ledger.Service
	finnhub *marketdata.Finnhub
	polygon *marketdata.Polygon
}

// NewServer creates the API server and registers the custom binding rules.
func NewServer(cfg *config.Config, logger *zap.Logger, ledgerSvc *ledger.Service, finnhub *marketdata.Finnhub, polygon *marketdata.Polygon) *Server {
	registerTickerValidation()
	return &Server{
		logger:  logger.Named("api"),
		cfg:     cfg,
		ledger:  ledgerSvc,
		finnhub: finnhub,
		polygon: polygon,
	}
}

func registerTickerValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
			return tickerPattern.MatchString(fl.Field().String())
		})
	}
}

// Router builds the gin engine with CORS, metrics and all routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.observe)

	corsCfg := cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"OPTIONS", "GET", "PUT", "PATCH", "POST", "DELETE"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With", "Authorization"},
	}
	router.Use(cors.New(corsCfg))

	router.GET("/ping", s.ping)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/wallet", s.getWallet)
		api.POST("/wallet/deposit", s.deposit)

		api.GET("/portfolio", s.getPortfolio)
		api.GET("/portfolio/:ticker", s.getHolding)
		api.POST("/portfolio/buy", s.buy)
		api.POST("/portfolio/sell", s.sell)

		api.GET("/watchlist", s.getWatchlist)
		api.GET("/watchlist/:ticker", s.watchlistContains)
		api.POST("/watchlist", s.addToWatchlist)
		api.DELETE("/watchlist/:ticker", s.removeFromWatchlist)

		api.GET("/quote/:ticker", s.quote)
		api.GET("/profile/:ticker", s.profile)
		api.GET("/search/:ticker", s.search)
		api.GET("/news/:ticker", s.news)
		api.GET("/recommendations/:ticker", s.recommendations)
		api.GET("/sentiment/:ticker", s.sentiment)
		api.GET("/peers/:ticker", s.peers)
		api.GET("/earnings/:ticker", s.earnings)
		api.GET("/historical/:ticker", s.historicalDaily)
		api.GET("/historical/:ticker/:from/:to", s.historicalRange)
	}

	// Any unmatched GET serves the static client bundle.
	router.NoRoute(s.serveStatic)

	return router
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"Res": "Pong"})
}

// observe records request metrics and a debug log line per request.
func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "static"
	}
	status := c.Writer.Status()
	metrics.RequestCounter.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
	metrics.RequestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())

	s.logger.Debug("Request served",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
	)
}

// serveStatic is the catch-all for the bundled web client: serve the file if
// it exists, otherwise fall back to index.html for client-side routing.
func (s *Server) serveStatic(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, gin.H{"response": "", "err": "not found"})
		return
	}

	path := filepath.Join(s.cfg.Server.StaticDir, filepath.Clean(c.Request.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		c.File(path)
		return
	}
	c.File(filepath.Join(s.cfg.Server.StaticDir, "index.html"))
}

// respondSuccess writes the fixed success envelope the client matches on.
func respondSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"response": "Success", "err": ""})
}

// respondError writes the error envelope with an empty response field.
func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"response": "", "err": msg})
}
