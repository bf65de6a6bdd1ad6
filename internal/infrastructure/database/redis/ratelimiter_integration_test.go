//go:build integration

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
)

func testClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("LEXIA_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEXIA_TEST_REDIS_ADDR not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestFixedWindowLimiter(t *testing.T) {
	client := testClient(t)
	limiter := NewFixedWindowLimiter(client, "lexia-test:", logging.NewNopLogger())
	ctx := context.Background()
	subject := "user-" + time.Now().Format("150405.000")

	for i := 0; i < 5; i++ {
		allowed, _, err := limiter.Allow(ctx, "analysis", subject, 5, 2*time.Second)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d within limit", i+1)
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "analysis", subject, 5, 2*time.Second)
	require.NoError(t, err)
	assert.False(t, allowed, "6th request must be rejected")
	assert.Greater(t, retryAfter, time.Duration(0))

	time.Sleep(2100 * time.Millisecond)

	allowed, _, err = limiter.Allow(ctx, "analysis", subject, 5, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, allowed, "window reset admits requests again")
}

func TestFixedWindowLimiterIsolatesScopes(t *testing.T) {
	client := testClient(t)
	limiter := NewFixedWindowLimiter(client, "lexia-test:", logging.NewNopLogger())
	ctx := context.Background()
	subject := "user-" + time.Now().Format("150405.000")

	for i := 0; i < 3; i++ {
		_, _, err := limiter.Allow(ctx, "analysis", subject, 3, 2*time.Second)
		require.NoError(t, err)
	}
	allowed, _, err := limiter.Allow(ctx, "draft", subject, 3, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, allowed, "draft scope unaffected by analysis counters")
}
