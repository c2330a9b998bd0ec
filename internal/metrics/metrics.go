// Package metrics exposes Prometheus counters and histograms for analyses
// and NLP calls on a registry owned by the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "document_analytics"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	analyses         *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	nlpRequests      *prometheus.CounterVec
	nlpDuration      prometheus.Histogram
	segmentation     *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Document analyses by format and status.",
		}, []string{"format", "status"}),
		analysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of a full analysis.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"format"}),
		nlpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nlp_requests_total",
			Help:      "Calls to the NLP service by outcome.",
		}, []string{"outcome"}),
		nlpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "nlp_request_duration_seconds",
			Help:      "Latency of NLP service calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		segmentation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segmentation_method_total",
			Help:      "Which segmentation strategy produced the paragraphs.",
		}, []string{"method"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.analyses,
		m.analysisDuration,
		m.nlpRequests,
		m.nlpDuration,
		m.segmentation,
		m.httpRequests,
	)
	return m
}

func (m *Metrics) RecordAnalysis(format, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(format, status).Inc()
	m.analysisDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// ObserveNLP records one NLP call. It satisfies analyzer.Observer.
func (m *Metrics) ObserveNLP(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.nlpRequests.WithLabelValues(outcome).Inc()
	m.nlpDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) RecordSegmentation(method string) {
	if m == nil {
		return
	}
	m.segmentation.WithLabelValues(method).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route, code string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, code).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
