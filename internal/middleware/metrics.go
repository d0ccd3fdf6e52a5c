package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomie_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts derived-read-view cache lookups by view and outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomie_cache_lookups_total",
		Help: "Total number of cache lookups by view and outcome (hit/miss)",
	}, []string{"view", "outcome"})

	// CacheInvalidations counts explicit read-view invalidations by view.
	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomie_cache_invalidations_total",
		Help: "Total number of read-view invalidations by view",
	}, []string{"view"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roomie_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthAttempts counts login/register outcomes. Labels never carry
	// credential material.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomie_auth_attempts_total",
		Help: "Total number of authentication attempts by operation and outcome",
	}, []string{"operation", "outcome"})
)

var (
	promOnce sync.Once
	promHTTP *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. The underlying collectors register globally, so the middleware is
// created once and shared; the first caller's service name wins.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promHTTP = fiberprometheus.New(serviceName)
	})
	return promHTTP
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
