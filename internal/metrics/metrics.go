package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service instrumentation on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPLatency     *prometheus.HistogramVec
	Reconciliations *prometheus.CounterVec
	ProviderErrors  prometheus.Counter
}

// New constructs and registers the service metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qrispay",
			Name:      "http_requests_total",
			Help:      "HTTP requests by handler and status code.",
		}, []string{"handler", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "qrispay",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by handler.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler"}),
		Reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qrispay",
			Name:      "reconciliations_total",
			Help:      "Background reconciliation outcomes.",
		}, []string{"result"}),
		ProviderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qrispay",
			Name:      "provider_errors_total",
			Help:      "Payment provider communication failures.",
		}),
	}

	registry.MustRegister(m.HTTPRequests, m.HTTPLatency, m.Reconciliations, m.ProviderErrors)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
