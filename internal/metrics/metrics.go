// Package metrics collects and exposes Prometheus metrics for the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records gateway metrics into a Prometheus registry.
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	purchases        *prometheus.CounterVec
	upstreamErrors   *prometheus.CounterVec
	sessionsActive   prometheus.Gauge
	rehydrations     *prometheus.CounterVec
	deductionMissing prometheus.Counter
}

// NewCollector registers the gateway metrics on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tixgate_http_requests_total",
			Help: "Requests handled per method, route and status code",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tixgate_http_request_duration_seconds",
			Help:    "Request latency per route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tixgate_purchases_total",
			Help: "Purchase attempts by outcome",
		}, []string{"outcome"}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tixgate_upstream_errors_total",
			Help: "Errors talking to backing services, per service",
		}, []string{"service"}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tixgate_sessions_active",
			Help: "Browser sessions currently held in memory",
		}),
		rehydrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tixgate_session_rehydrations_total",
			Help: "Session rehydration results",
		}, []string{"result"}),
		deductionMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tixgate_balance_deduction_failures_total",
			Help: "Paid purchases whose wallet deduction could not be completed",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.purchases,
		c.upstreamErrors,
		c.sessionsActive,
		c.rehydrations,
		c.deductionMissing,
	)

	return c
}

// RecordPurchase counts a purchase attempt with its outcome label
// (completed, completed_with_warning, rejected, failed).
func (c *Collector) RecordPurchase(outcome string) {
	c.purchases.WithLabelValues(outcome).Inc()
}

// RecordUpstreamError counts a failed call to a backing service.
func (c *Collector) RecordUpstreamError(service string) {
	c.upstreamErrors.WithLabelValues(service).Inc()
}

// SetActiveSessions reports the current session registry size.
func (c *Collector) SetActiveSessions(n int) {
	c.sessionsActive.Set(float64(n))
}

// RecordRehydration counts a rehydration result (authenticated, guest, demoted).
func (c *Collector) RecordRehydration(result string) {
	c.rehydrations.WithLabelValues(result).Inc()
}

// RecordDeductionFailure counts a purchase that completed without its
// wallet deduction.
func (c *Collector) RecordDeductionFailure() {
	c.deductionMissing.Inc()
}

// Middleware records request counts and latency per route.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(g *gin.Context) {
		start := time.Now()
		g.Next()

		route := g.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.httpRequests.WithLabelValues(g.Request.Method, route, strconv.Itoa(g.Writer.Status())).Inc()
		c.httpLatency.WithLabelValues(g.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
