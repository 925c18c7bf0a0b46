// Package metrics holds the Prometheus collectors of the service
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fm_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fm_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var (
	// UploadsTotal counts created records by type
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fm_uploads_total",
			Help: "Records created through uploads",
		},
		[]string{"type"},
	)

	// EnqueueFailuresTotal counts jobs that could not be handed to the queue
	EnqueueFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fm_enqueue_failures_total",
			Help: "Background jobs dropped because the queue was unreachable",
		},
		[]string{"job"},
	)

	// JobsTotal counts processed jobs by type and result (ok, retry, dead)
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fm_jobs_total",
			Help: "Background jobs processed",
		},
		[]string{"type", "result"},
	)

	UserCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_user_cache_hits_total",
		Help: "User lookups answered from memory",
	})

	UserCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_user_cache_misses_total",
		Help: "User lookups that went to the database",
	})
)

// Middleware records the count and latency of every request. Routes are
// labelled by their pattern so ids don't blow up cardinality.
func Middleware() gin.HandlerFunc {
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

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
