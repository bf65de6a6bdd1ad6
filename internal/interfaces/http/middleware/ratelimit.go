package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
	"github.com/praxislegal/lexia/pkg/types/common"
)

// Limiter answers whether one more request in the given scope is allowed
// for the subject. The Redis fixed-window limiter satisfies this for
// multi-replica deployments; LocalLimiter covers single-process setups.
type Limiter interface {
	Allow(ctx context.Context, scope, subject string, limit int, window time.Duration) (bool, time.Duration, error)
}

// RateLimitMiddleware enforces per-user request budgets on the expensive
// model-backed endpoints.
type RateLimitMiddleware struct {
	limiter Limiter
	cfg     config.RateLimitConfig
	onAllow func(scope string, allowed bool)
	logger  logging.Logger
}

// NewRateLimitMiddleware builds the middleware. onReject may be nil; when
// set it is invoked once per rejected request, keyed by scope.
func NewRateLimitMiddleware(limiter Limiter, cfg config.RateLimitConfig, onReject func(scope string), logger logging.Logger) *RateLimitMiddleware {
	if cfg.Window == 0 {
		cfg.Window = time.Minute
	}
	m := &RateLimitMiddleware{limiter: limiter, cfg: cfg, logger: logger}
	m.onAllow = func(scope string, allowed bool) {
		if !allowed && onReject != nil {
			onReject(scope)
		}
	}
	return m
}

// LimitAnalysis bounds strategic-analysis runs per user per window.
func (m *RateLimitMiddleware) LimitAnalysis(next http.Handler) http.Handler {
	return m.limit("analysis", m.cfg.AnalysisPerMinute, errors.ErrCodeAnalysisRateLimited, next)
}

// LimitDraft bounds drafting calls per user per window.
func (m *RateLimitMiddleware) LimitDraft(next http.Handler) http.Handler {
	return m.limit("draft", m.cfg.DraftPerMinute, errors.ErrCodeDraftRateLimited, next)
}

func (m *RateLimitMiddleware) limit(scope string, limit int, code errors.ErrorCode, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		identity, ok := IdentityFrom(r.Context())
		if !ok {
			// Auth runs first; an absent identity is a wiring bug, not a
			// client error. Fail closed.
			writeAuthError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "authentication required")
			return
		}

		subject := identity.TenantID.String() + ":" + identity.UserID.String()
		allowed, retryAfter, err := m.limiter.Allow(r.Context(), scope, subject, limit, m.cfg.Window)
		if err != nil {
			// Fail open on limiter backend trouble rather than blocking the
			// whole tenant.
			m.logger.Warn("rate limiter unavailable",
				logging.String("scope", scope), logging.Err(err))
			next.ServeHTTP(w, r)
			return
		}

		m.onAllow(scope, allowed)
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			w.WriteHeader(http.StatusTooManyRequests)
			writeBody(w, common.NewErrorResponse(string(code), "rate limit exceeded, slow down"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LocalLimiter is an in-process token bucket keyed by scope and subject.
// It refills at limit/window and bursts up to the full limit.
type LocalLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{buckets: make(map[string]*bucket)}
}

func (l *LocalLimiter) Allow(_ context.Context, scope, subject string, limit int, window time.Duration) (bool, time.Duration, error) {
	key := scope + ":" + subject
	rate := float64(limit) / window.Seconds()
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(limit), lastRefill: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * rate
	if b.tokens > float64(limit) {
		b.tokens = float64(limit)
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0, nil
	}

	deficit := 1 - b.tokens
	retryAfter := time.Duration(deficit / rate * float64(time.Second))
	return false, retryAfter, nil
}
