package prometheus

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveRequest("POST", "/api/v1/lexia/estratega/analyze", "200", 1200*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/lexia/estratega/analyze", "200", 900*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/lexia/estratega/analyze", "429", time.Millisecond)

	counter := m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/lexia/estratega/analyze", "200")
	assert.Equal(t, 2.0, testutil.ToFloat64(counter))
	rejected := m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/lexia/estratega/analyze", "429")
	assert.Equal(t, 1.0, testutil.ToFloat64(rejected))
}

func TestObserveAnalysisAndDraftTokens(t *testing.T) {
	m := NewMetrics()

	m.ObserveAnalysis("ok", 18*time.Second, 4200)
	m.ObserveAnalysis("error", 2*time.Second, 0)
	m.ObserveDraft("ok", 900)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysisRunsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysisRunsTotal.WithLabelValues("error")))
	assert.Equal(t, 4200.0, testutil.ToFloat64(m.ModelTokensTotal.WithLabelValues("analysis")))
	assert.Equal(t, 900.0, testutil.ToFloat64(m.ModelTokensTotal.WithLabelValues("draft")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.RateLimited("analysis")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "lexia_rate_limit_rejections_total")
}
