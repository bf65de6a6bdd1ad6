// Package bootstrap assembles the platform from configuration: connections,
// repositories, the intelligence pipeline, services and the HTTP server.
// Both the apiserver binary and the CLI serve command build on it.
package bootstrap

import (
	"context"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxislegal/lexia/internal/application/drafting"
	"github.com/praxislegal/lexia/internal/application/strategy"
	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/database/postgres"
	"github.com/praxislegal/lexia/internal/infrastructure/database/postgres/repositories"
	lexredis "github.com/praxislegal/lexia/internal/infrastructure/database/redis"
	"github.com/praxislegal/lexia/internal/infrastructure/messaging/kafka"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/prometheus"
	"github.com/praxislegal/lexia/internal/infrastructure/storage/minio"
	"github.com/praxislegal/lexia/internal/intelligence/common"
	"github.com/praxislegal/lexia/internal/intelligence/draft"
	"github.com/praxislegal/lexia/internal/intelligence/estratega"
	httpserver "github.com/praxislegal/lexia/internal/interfaces/http"
	"github.com/praxislegal/lexia/internal/interfaces/http/handlers"
	"github.com/praxislegal/lexia/internal/interfaces/http/middleware"
)

// App is the assembled platform.
type App struct {
	Config  *config.Config
	Logger  logging.Logger
	Pool    *pgxpool.Pool
	Redis   *goredis.Client
	Server  *httpserver.Server
	Metrics *prometheus.Metrics

	Strategy *strategy.Service
	Drafting *drafting.Service

	modelClient common.CompletionClient
	publisher   *kafka.Publisher
}

// New builds the full application. Optional subsystems (Kafka, MinIO) are
// wired only when enabled in configuration; the services tolerate their
// absence.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	pool, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	redisClient, err := lexredis.Connect(ctx, cfg.Redis, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	caseRepo := repositories.NewCaseRepository(pool, logger)
	analysisRepo := repositories.NewAnalysisRepository(pool, logger)
	usageRepo := repositories.NewUsageRepository(pool, cfg.RateLimit.MonthlyTokenBudget, logger)

	modelClient, err := common.NewClient(ctx, cfg.Model, logger)
	if err != nil {
		redisClient.Close()
		pool.Close()
		return nil, err
	}
	analyzer := estratega.NewAnalyzer(modelClient, cfg.Model, logger)
	drafter := draft.NewDrafter(modelClient, cfg.Model, logger)

	app := &App{
		Config:      cfg,
		Logger:      logger,
		Pool:        pool,
		Redis:       redisClient,
		Metrics:     prometheus.NewMetrics(),
		modelClient: modelClient,
	}

	var analysisEvents strategy.Publisher
	var draftEvents drafting.Publisher
	if cfg.Kafka.Enabled {
		publisher, err := kafka.NewPublisher(cfg.Kafka, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.publisher = publisher
		analysisEvents = publisher
		draftEvents = publisher
	}

	var archive drafting.Archiver
	if cfg.MinIO.Enabled {
		draftArchive, err := minio.NewDraftArchive(ctx, cfg.MinIO, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		archive = draftArchive
	}

	app.Strategy = strategy.NewService(caseRepo, caseRepo, analysisRepo, analyzer, usageRepo, analysisEvents, logger).
		WithMetrics(app.Metrics)
	app.Drafting = drafting.NewService(drafter, usageRepo, usageRepo, archive, draftEvents, logger).
		WithMetrics(app.Metrics)

	app.Server = httpserver.NewServer(cfg.Server, app.buildRouter(caseRepo), logger)
	return app, nil
}

func (a *App) buildRouter(caseRepo *repositories.CaseRepository) http.Handler {
	var limiter middleware.Limiter
	if a.Config.RateLimit.Distributed {
		limiter = lexredis.NewFixedWindowLimiter(a.Redis, a.Config.Redis.KeyPrefix, a.Logger)
	} else {
		limiter = middleware.NewLocalLimiter()
	}

	health := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"postgres": handlers.PingerFunc(func(ctx context.Context) error { return a.Pool.Ping(ctx) }),
		"redis":    handlers.PingerFunc(func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }),
	})

	return httpserver.NewRouter(httpserver.RouterConfig{
		StrategyHandler: handlers.NewStrategyHandler(a.Strategy, a.Logger),
		DraftHandler:    handlers.NewDraftHandler(a.Drafting, a.Config.Server.DraftWriteTimeout, a.Logger),
		CaseHandler:     handlers.NewCaseHandler(caseRepo, caseRepo, a.Logger),
		HealthHandler:   health,

		AuthMiddleware:      middleware.NewAuthMiddleware(middleware.NewJWTValidator(a.Config.Auth), nil, a.Config.Auth, a.Logger),
		LoggingMiddleware:   middleware.NewLoggingMiddleware(a.Logger),
		MetricsMiddleware:   middleware.NewMetricsMiddleware(a.Metrics),
		RateLimitMiddleware: middleware.NewRateLimitMiddleware(limiter, a.Config.RateLimit, a.Metrics.RateLimited, a.Logger),

		Metrics: a.Metrics,
	})
}

// Run starts the HTTP server and blocks until ctx is cancelled, then drains
// within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.Server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := a.Config.Server.ShutdownTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return a.Server.Stop(shutdownCtx)
}

// Close releases every connection the app holds. Safe after partial init.
func (a *App) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.Logger.Warn("kafka close failed", logging.Err(err))
		}
	}
	if a.modelClient != nil {
		if err := a.modelClient.Close(); err != nil {
			a.Logger.Warn("model client close failed", logging.Err(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("redis close failed", logging.Err(err))
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
