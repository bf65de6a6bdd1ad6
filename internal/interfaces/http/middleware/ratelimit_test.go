package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
)

func limiterFixture(limiter Limiter, onReject func(string)) *RateLimitMiddleware {
	cfg := config.RateLimitConfig{AnalysisPerMinute: 5, DraftPerMinute: 60, Window: time.Minute}
	return NewRateLimitMiddleware(limiter, cfg, onReject, logging.NewNopLogger())
}

func authedRequest(identity *Identity) *http.Request {
	req := httptest.NewRequest("POST", "/api/v1/lexia/estratega/analyze", nil)
	return req.WithContext(WithIdentity(req.Context(), identity))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLimitAnalysisFixedBudget(t *testing.T) {
	var rejected []string
	handler := limiterFixture(NewLocalLimiter(), func(scope string) {
		rejected = append(rejected, scope)
	}).LimitAnalysis(okHandler())

	identity := &Identity{UserID: uuid.New(), TenantID: uuid.New()}
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(identity))
		require.Equal(t, http.StatusOK, rec.Code, "request %d within budget", i+1)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(identity))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, []string{"analysis"}, rejected)

	seconds, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seconds, 1)
	assert.Contains(t, rec.Body.String(), "LEX_004")
}

func TestLimitIsolatesUsers(t *testing.T) {
	handler := limiterFixture(NewLocalLimiter(), nil).LimitAnalysis(okHandler())

	first := &Identity{UserID: uuid.New(), TenantID: uuid.New()}
	for i := 0; i < 6; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(first))
		_ = rec
	}

	second := &Identity{UserID: uuid.New(), TenantID: first.TenantID}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(second))
	assert.Equal(t, http.StatusOK, rec.Code, "other users keep their own budget")
}

func TestLimitRequiresIdentity(t *testing.T) {
	handler := limiterFixture(NewLocalLimiter(), nil).LimitAnalysis(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/lexia/estratega/analyze", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, string, int, time.Duration) (bool, time.Duration, error) {
	return false, 0, assert.AnError
}

func TestLimitFailsOpenOnBackendError(t *testing.T) {
	handler := limiterFixture(failingLimiter{}, nil).LimitAnalysis(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(&Identity{UserID: uuid.New(), TenantID: uuid.New()}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLocalLimiterRefills(t *testing.T) {
	limiter := NewLocalLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow(ctx, "draft", "u1", 3, 300*time.Millisecond)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	allowed, retryAfter, err := limiter.Allow(ctx, "draft", "u1", 3, 300*time.Millisecond)
	require.NoError(t, err)
	require.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))

	time.Sleep(150 * time.Millisecond)

	allowed, _, err = limiter.Allow(ctx, "draft", "u1", 3, 300*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed, "bucket refills at limit/window")
}
