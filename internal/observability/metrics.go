package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors exported at /metrics.
type Metrics struct {
	Registry        *prometheus.Registry
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ContentErrors   *prometheus.CounterVec
	SEOLoads        prometheus.Counter
}

// NewMetrics registers the site collectors on a fresh registry, so tests can
// build as many instances as they need.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "web",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "web",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		ContentErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "web",
			Name:      "content_load_errors_total",
			Help:      "Content documents that failed to load, by domain.",
		}, []string{"domain"}),
		SEOLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "web",
			Name:      "seo_document_loads_total",
			Help:      "Reads of the SEO document from disk.",
		}),
	}
	reg.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.ContentErrors,
		m.SEOLoads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
