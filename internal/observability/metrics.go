package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	prepareRuns       *prometheus.CounterVec
	prepareDuration   prometheus.Histogram
	skippedSeries     *prometheus.CounterVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	leakChecks        *prometheus.CounterVec
}

// NewMetrics registers the collectors on a private registry so several servers
// (and tests) can coexist in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		prepareRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "powerview_prepare_runs_total",
			Help: "Total interval preparations by interval and outcome.",
		}, []string{"interval", "outcome"}),
		prepareDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "powerview_prepare_duration_seconds",
			Help:    "Histogram of interval preparation durations.",
			Buckets: prometheus.DefBuckets,
		}),
		skippedSeries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "powerview_skipped_series_total",
			Help: "Total derived series dropped during preparation, by metric code.",
		}, []string{"obis_code"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "powerview_cache_hits_total",
			Help: "Total prepared result cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "powerview_cache_misses_total",
			Help: "Total prepared result cache misses.",
		}),
		leakChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "powerview_leak_checks_total",
			Help: "Total leak characteristic checks by verdict.",
		}, []string{"verdict"}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.prepareRuns,
		m.prepareDuration,
		m.skippedSeries,
		m.cacheHits,
		m.cacheMisses,
		m.leakChecks,
	)

	return m
}

func (m *Metrics) ObserveRequest(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Prepared(interval string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.prepareRuns.WithLabelValues(interval, outcome).Inc()
	m.prepareDuration.Observe(duration.Seconds())
}

func (m *Metrics) SkippedSeries(code string) {
	if m == nil {
		return
	}
	m.skippedSeries.WithLabelValues(code).Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) LeakCheck(verdict string) {
	if m == nil {
		return
	}
	m.leakChecks.WithLabelValues(verdict).Inc()
}
