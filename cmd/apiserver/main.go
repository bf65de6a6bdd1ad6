// API server entry point for the Lexia legal platform.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/praxislegal/lexia/internal/bootstrap"
	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/database/postgres"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	migrateFirst := flag.Bool("migrate", false, "run database migrations before serving")
	flag.Parse()

	if err := run(*configPath, *migrateFirst); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, migrateFirst bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	if migrateFirst {
		if err := postgres.Migrate(cfg.Database, logger); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	logger.Info("lexia apiserver starting",
		logging.Int("port", cfg.Server.Port),
		logging.String("model_provider", cfg.Model.Provider))
	return app.Run(ctx)
}

// loadConfig prefers the file but falls back to pure env configuration so
// containerised deployments need no mounted config.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
