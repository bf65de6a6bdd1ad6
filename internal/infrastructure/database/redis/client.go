package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
)

// Connect builds a redis client from the configuration and verifies it
// with a ping.
func Connect(ctx context.Context, cfg config.RedisConfig, logger logging.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, errors.CodeCacheError, "redis unreachable")
	}

	logger.Info("connected to redis", logging.String("addr", cfg.Addr))
	return client, nil
}
