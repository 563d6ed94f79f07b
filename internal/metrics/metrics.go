package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP surface
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papertrade_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"})
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "papertrade_http_request_duration_seconds",
			Help:    "Time to serve one request",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"})

	// Trade settlement
	SettlementCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papertrade_settlements_total",
			Help: "Trade settlements by side and result",
		}, []string{"side", "result"})

	// Gateway
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papertrade_upstream_errors_total",
			Help: "Market data provider failures by endpoint",
		}, []string{"endpoint"})
)
