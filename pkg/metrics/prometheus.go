// Package metrics provides Prometheus instruments for the SmartFarmAI API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service's metric instruments.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	dbQueries           *prometheus.CounterVec
	dbQueryDuration     *prometheus.HistogramVec
}

var globalManager = NewManager() //nolint:gochecknoglobals // process-wide instruments

// NewManager creates a manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "smartfarm",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.init()
	return m
}

func (m *Manager) init() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   m.buckets,
	}, []string{"route", "method"})

	m.dbQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "db_queries_total",
		Help:      "Database queries by name and result.",
	}, []string{"query", "result"})

	m.dbQueryDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "db_query_duration_seconds",
		Help:      "Database query latency.",
		Buckets:   m.buckets,
	}, []string{"query"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordHTTPRequest counts one request and observes its latency.
func (m *Manager) RecordHTTPRequest(route, method, status string, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// RecordDBQuery counts one query; err decides the result label.
func (m *Manager) RecordDBQuery(query string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.dbQueries.WithLabelValues(query, result).Inc()
	m.dbQueryDuration.WithLabelValues(query).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package-level helpers operate on the global manager.

func RecordHTTPRequest(route, method, status string, d time.Duration) {
	globalManager.RecordHTTPRequest(route, method, status, d)
}

func RecordDBQuery(query string, d time.Duration, err error) {
	globalManager.RecordDBQuery(query, d, err)
}

func Handler() http.Handler { return globalManager.Handler() }
