package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported by the HTTP API
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	typeChanges *prometheus.CounterVec
	rateLimited prometheus.Counter
}

// New registers the qfilter collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qfilter",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "qfilter",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"endpoint"}),
		typeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qfilter",
			Name:      "type_changes_total",
			Help:      "Queries rewritten to a result type.",
		}, []string{"type"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qfilter",
			Name:      "rate_limited_total",
			Help:      "Requests refused by the per-client rate limiter.",
		}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.typeChanges, m.rateLimited)
	m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// ObserveRequest records one handled request
func (m *Metrics) ObserveRequest(endpoint string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// TypeChanged records a rewrite to typ
func (m *Metrics) TypeChanged(typ string) {
	m.typeChanges.WithLabelValues(typ).Inc()
}

// RateLimited records a refused request
func (m *Metrics) RateLimited() {
	m.rateLimited.Inc()
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
