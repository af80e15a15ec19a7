package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Metrics encapsulates Prometheus metrics for the proxy.
type Metrics struct {
	registry         *prometheus.Registry
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	ActiveRequests   *prometheus.GaugeVec
	ErrorsTotal      *prometheus.CounterVec
	UpstreamTotal    *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with a custom registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "summaryproxy_http_requests_total",
				Help: "Total number of HTTP requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "summaryproxy_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		ActiveRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "summaryproxy_http_active_requests",
				Help: "Number of currently active HTTP requests",
			},
			[]string{"endpoint"},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "summaryproxy_errors_total",
				Help: "Total number of errors by type",
			},
			[]string{"type"},
		),
		UpstreamTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "summaryproxy_upstream_requests_total",
				Help: "Total number of generation calls by outcome",
			},
			[]string{"outcome"},
		),
		UpstreamDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "summaryproxy_upstream_duration_seconds",
				Help:    "Duration of generation calls in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
		),
	}

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	for _, outcome := range []string{OutcomeSuccess, OutcomeEmpty, OutcomeError} {
		m.UpstreamTotal.WithLabelValues(outcome).Add(0)
	}

	return m
}

// ObserveUpstream records one generation call.
func (m *Metrics) ObserveUpstream(outcome string, seconds float64) {
	m.UpstreamTotal.WithLabelValues(outcome).Inc()
	m.UpstreamDuration.Observe(seconds)
}

// Handler returns a handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: false,
	})
}
