package cli

import (
	"github.com/spf13/cobra"

	"github.com/praxislegal/lexia/internal/infrastructure/database/postgres"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			return postgres.Migrate(cfg.Database, logger)
		},
	}
}
