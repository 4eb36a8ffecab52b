// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Uploads counts upload attempts by outcome ("success" or an error kind).
	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hush_uploads_total",
			Help: "Confession uploads by outcome",
		},
		[]string{"outcome"},
	)

	// CrisisDetections counts submissions that raised a crisis advisory or block.
	CrisisDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hush_crisis_detections_total",
			Help: "Submissions routed to crisis support by level",
		},
		[]string{"level"},
	)

	// Refinements counts model-backed analysis refinements by provider and status.
	Refinements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hush_analysis_refinements_total",
			Help: "Model-backed analysis refinements",
		},
		[]string{"provider", "status"},
	)

	// RequestDuration tracks HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hush_http_request_duration_seconds",
			Help:    "Time spent processing HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware observes RequestDuration for every request.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
