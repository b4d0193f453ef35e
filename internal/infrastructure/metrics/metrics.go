package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payledger",
		Name:      "settlements_total",
		Help:      "Settlement notifications by acknowledgement code.",
	}, []string{"provider", "code"})

	payoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payledger",
		Name:      "payouts_total",
		Help:      "Payout state changes and failures.",
	}, []string{"action", "result"})

	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payledger",
		Name:      "provider_requests_total",
		Help:      "Outbound provider API calls.",
	}, []string{"provider", "operation", "result"})

	providerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "payledger",
		Name:      "provider_request_duration_seconds",
		Help:      "Outbound provider API latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "operation"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payledger",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "payledger",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveSettlement counts one acknowledged settlement delivery
func ObserveSettlement(provider, code string) {
	settlementsTotal.WithLabelValues(provider, code).Inc()
}

// ObservePayout counts a payout action ("request", "approve", "reject", "pay", "sweep")
func ObservePayout(action string, err error) {
	payoutsTotal.WithLabelValues(action, resultLabel(err)).Inc()
}

// ObserveProviderCall records one outbound provider call
func ObserveProviderCall(provider, operation string, started time.Time, err error) {
	providerRequestsTotal.WithLabelValues(provider, operation, resultLabel(err)).Inc()
	providerRequestDuration.WithLabelValues(provider, operation).Observe(time.Since(started).Seconds())
}

// GinMiddleware records request counts and latency keyed by the matched route
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
