package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spores_football"

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups     *prometheus.CounterVec
	cacheWriteErrors *prometheus.CounterVec
	upstreamRequests *prometheus.HistogramVec
	upstreamFailures *prometheus.CounterVec
	breakerState     *prometheus.GaugeVec
	httpRequests     *prometheus.HistogramVec
	warmupTasks      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by query and result.",
		}, []string{"query", "result"}),
		cacheWriteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_write_errors_total",
			Help:      "Cache writes that failed and were skipped.",
		}, []string{"query"}),
		upstreamRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Provider request latency by endpoint and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "outcome"}),
		upstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Service operations whose upstream fetch failed.",
		}, []string{"query"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_open",
			Help:      "1 while the named breaker is open or half-open.",
		}, []string{"breaker"}),
		httpRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP handler latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		warmupTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warmup_tasks_total",
			Help:      "Cache warmup tasks by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.cacheLookups,
		m.cacheWriteErrors,
		m.upstreamRequests,
		m.upstreamFailures,
		m.breakerState,
		m.httpRequests,
		m.warmupTasks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveCacheLookup(query, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(query, result).Inc()
}

func (m *Metrics) ObserveCacheWriteError(query string) {
	if m == nil {
		return
	}
	m.cacheWriteErrors.WithLabelValues(query).Inc()
}

func (m *Metrics) ObserveUpstreamRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveUpstreamFailure(query string) {
	if m == nil {
		return
	}
	m.upstreamFailures.WithLabelValues(query).Inc()
}

func (m *Metrics) SetBreakerOpen(breaker string, open bool) {
	if m == nil {
		return
	}
	value := 0.0
	if open {
		value = 1
	}
	m.breakerState.WithLabelValues(breaker).Set(value)
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveWarmupTask(outcome string) {
	if m == nil {
		return
	}
	m.warmupTasks.WithLabelValues(outcome).Inc()
}
