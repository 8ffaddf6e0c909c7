// Package metrics defines the Prometheus collectors of the retrieval engine
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        *prometheus.HistogramVec
	SearchResultsCount   *prometheus.HistogramVec
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	IndexBuildsTotal     *prometheus.CounterVec
	IndexBuildDuration   *prometheus.HistogramVec
	DocumentsLoaded      prometheus.Gauge
	ActiveModel          *prometheus.GaugeVec
	AnalyticsDropped     prometheus.Counter
}

// New creates the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in binaries and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retrieval_queries_total",
				Help: "Total queries by model and result type (hit, zero_result, error).",
			},
			[]string{"model", "result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retrieval_query_latency_seconds",
				Help:    "Query latency in seconds by model.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
			},
			[]string{"model"},
		),
		SearchResultsCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retrieval_results_count",
				Help:    "Number of results returned per query.",
				Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
			},
			[]string{"model"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of query cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of query cache misses.",
			},
		),
		IndexBuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "index_builds_total",
				Help: "Total index builds by model.",
			},
			[]string{"model"},
		),
		IndexBuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "index_build_duration_seconds",
				Help:    "Index build time in seconds by model.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"model"},
		),
		DocumentsLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "documents_loaded",
				Help: "Number of documents in the active collection.",
			},
		),
		ActiveModel: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "active_model",
				Help: "1 for the active retrieval model, 0 otherwise.",
			},
			[]string{"model"},
		),
		AnalyticsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "analytics_events_dropped_total",
				Help: "Search events dropped because the buffer was full.",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.IndexBuildsTotal,
		m.IndexBuildDuration,
		m.DocumentsLoaded,
		m.ActiveModel,
		m.AnalyticsDropped,
	)

	return m
}

// ObserveSearch records one query against model.
func (m *Metrics) ObserveSearch(model string, results int, elapsed time.Duration, err error) {
	resultType := "hit"
	switch {
	case err != nil:
		resultType = "error"
	case results == 0:
		resultType = "zero_result"
	}
	m.SearchQueriesTotal.WithLabelValues(model, resultType).Inc()
	if err != nil {
		return
	}
	m.SearchLatency.WithLabelValues(model).Observe(elapsed.Seconds())
	m.SearchResultsCount.WithLabelValues(model).Observe(float64(results))
}

// ObserveBuild records one index build of model.
func (m *Metrics) ObserveBuild(model string, elapsed time.Duration) {
	m.IndexBuildsTotal.WithLabelValues(model).Inc()
	m.IndexBuildDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}

// SetActiveModel marks active as the only active model among all.
func (m *Metrics) SetActiveModel(active string, all []string) {
	for _, name := range all {
		v := 0.0
		if name == active {
			v = 1
		}
		m.ActiveModel.WithLabelValues(name).Set(v)
	}
}

// Handler returns the scrape handler for the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
