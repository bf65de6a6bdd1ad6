package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/prometheus"
)

// MetricsMiddleware records request counts and latencies. The route label is
// the chi pattern, so /cases/{caseID} stays one series per route.
type MetricsMiddleware struct {
	metrics *prometheus.Metrics
}

func NewMetricsMiddleware(metrics *prometheus.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics}
}

func (m *MetricsMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		m.metrics.ObserveRequest(r.Method, route, strconv.Itoa(ww.Status()), time.Since(start))
	})
}
