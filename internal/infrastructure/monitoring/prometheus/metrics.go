package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lexia"

// Metrics holds the instruments exposed on /metrics. All vectors are
// registered on a private registry so tests never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AnalysisRunsTotal     *prometheus.CounterVec
	AnalysisDuration      prometheus.Histogram
	DraftStreamsTotal     *prometheus.CounterVec
	ModelTokensTotal      *prometheus.CounterVec
	RateLimitRejectsTotal *prometheus.CounterVec
}

// NewMetrics builds and registers all instruments.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"}),
		AnalysisRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Strategic analysis runs by outcome.",
		}, []string{"status"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end strategic analysis pipeline latency.",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 120, 300},
		}),
		DraftStreamsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draft_streams_total",
			Help:      "Document draft streams by outcome.",
		}, []string{"status"}),
		ModelTokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_tokens_total",
			Help:      "Language model tokens consumed by operation kind.",
		}, []string{"kind"}),
		RateLimitRejectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Requests rejected by the rate limiter, by scope.",
		}, []string{"scope"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AnalysisRunsTotal,
		m.AnalysisDuration,
		m.DraftStreamsTotal,
		m.ModelTokensTotal,
		m.RateLimitRejectsTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAnalysis records one pipeline run.
func (m *Metrics) ObserveAnalysis(status string, elapsed time.Duration, tokens int) {
	m.AnalysisRunsTotal.WithLabelValues(status).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
	m.ModelTokensTotal.WithLabelValues("analysis").Add(float64(tokens))
}

// ObserveDraft records one draft stream.
func (m *Metrics) ObserveDraft(status string, tokens int) {
	m.DraftStreamsTotal.WithLabelValues(status).Inc()
	m.ModelTokensTotal.WithLabelValues("draft").Add(float64(tokens))
}

// RateLimited records one rejected request.
func (m *Metrics) RateLimited(scope string) {
	m.RateLimitRejectsTotal.WithLabelValues(scope).Inc()
}
