package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/praxislegal/lexia/internal/bootstrap"
	"github.com/praxislegal/lexia/internal/infrastructure/database/postgres"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Lexia API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
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

			logger.Info("lexia serving", logging.Int("port", cfg.Server.Port))
			return app.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "run database migrations before serving")
	return cmd
}
