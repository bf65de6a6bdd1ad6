package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
)

// FixedWindowLimiter bounds request rate per subject using one counter per
// window. The counter lives in redis, so the limit holds across every
// instance of the service.
type FixedWindowLimiter struct {
	client    *redis.Client
	keyPrefix string
	logger    logging.Logger
}

// NewFixedWindowLimiter builds a limiter on the given client. keyPrefix
// namespaces the counters (e.g. "lexia:").
func NewFixedWindowLimiter(client *redis.Client, keyPrefix string, logger logging.Logger) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger.Named("ratelimit"),
	}
}

// Allow consumes one request from the subject's window. When the limit is
// exceeded it reports the remaining window as the retry hint. The first
// request of a window creates the counter and arms its expiry atomically.
func (l *FixedWindowLimiter) Allow(ctx context.Context, scope, subject string, limit int, window time.Duration) (bool, time.Duration, error) {
	key := fmt.Sprintf("%sratelimit:%s:%s", l.keyPrefix, scope, subject)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, errors.Wrap(err, errors.CodeCacheError, "rate limit check failed")
	}

	count := incr.Val()
	if count <= int64(limit) {
		return true, 0, nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return false, ttl, nil
}
