package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/domain/analysis"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/prometheus"
	"github.com/praxislegal/lexia/internal/interfaces/http/handlers"
	"github.com/praxislegal/lexia/internal/interfaces/http/middleware"
)

const routerTestSecret = "router-secret"

type stubStrategy struct {
	calls int
}

func (s *stubStrategy) Analyze(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*analysis.StrategicAnalysis, error) {
	s.calls++
	return &analysis.StrategicAnalysis{ID: uuid.New(), AnalyzedAt: time.Now()}, nil
}

func (s *stubStrategy) List(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID) ([]*analysis.Summary, error) {
	return nil, nil
}

func (s *stubStrategy) Get(context.Context, uuid.UUID, uuid.UUID) (*analysis.StrategicAnalysis, error) {
	return &analysis.StrategicAnalysis{ID: uuid.New()}, nil
}

func routerFixture(t *testing.T, strategy *stubStrategy) http.Handler {
	t.Helper()
	authCfg := config.AuthConfig{JWTSecret: routerTestSecret}
	rlCfg := config.RateLimitConfig{AnalysisPerMinute: 5, DraftPerMinute: 60, Window: time.Minute}
	logger := logging.NewNopLogger()
	metrics := prometheus.NewMetrics()

	return NewRouter(RouterConfig{
		StrategyHandler:     handlers.NewStrategyHandler(strategy, logger),
		HealthHandler:       handlers.NewHealthHandler(nil),
		AuthMiddleware:      middleware.NewAuthMiddleware(middleware.NewJWTValidator(authCfg), nil, authCfg, logger),
		LoggingMiddleware:   middleware.NewLoggingMiddleware(logger),
		MetricsMiddleware:   middleware.NewMetricsMiddleware(metrics),
		RateLimitMiddleware: middleware.NewRateLimitMiddleware(middleware.NewLocalLimiter(), rlCfg, metrics.RateLimited, logger),
		Metrics:             metrics,
	})
}

func bearer(t *testing.T, userID, tenantID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":       userID.String(),
		"tenant_id": tenantID.String(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(routerTestSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func analyzeCall(t *testing.T, router http.Handler, auth string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"case_id": uuid.New().String()})
	req := httptest.NewRequest("POST", "/api/v1/lexia/estratega/analyze", bytes.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterRequiresAuth(t *testing.T) {
	strategy := &stubStrategy{}
	router := routerFixture(t, strategy)

	rec := analyzeCall(t, router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, strategy.calls)
}

func TestRouterProbesArePublic(t *testing.T) {
	router := routerFixture(t, &stubStrategy{})

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouterAnalysisRateLimit(t *testing.T) {
	strategy := &stubStrategy{}
	router := routerFixture(t, strategy)

	auth := bearer(t, uuid.New(), uuid.New())
	for i := 0; i < 5; i++ {
		rec := analyzeCall(t, router, auth)
		require.Equal(t, http.StatusOK, rec.Code, "request %d within budget", i+1)
	}

	rec := analyzeCall(t, router, auth)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 5, strategy.calls, "rejected request never reaches the service")

	// Another user is unaffected.
	rec = analyzeCall(t, router, bearer(t, uuid.New(), uuid.New()))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterListAnalysesNotRateLimited(t *testing.T) {
	router := routerFixture(t, &stubStrategy{})
	auth := bearer(t, uuid.New(), uuid.New())

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/api/v1/lexia/estratega/analyses", nil)
		req.Header.Set("Authorization", auth)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
