package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/praxislegal/lexia/internal/bootstrap"
)

// newAnalyzeCmd runs the full strategic-analysis pipeline for one case from
// the command line and prints the report as JSON. Useful for backfills and
// for inspecting pipeline output without the HTTP layer.
func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		caseID   string
		tenantID string
		userID   string
		summary  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run strategic analysis for one case",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cID, err := uuid.Parse(caseID)
			if err != nil {
				return err
			}
			tID, err := uuid.Parse(tenantID)
			if err != nil {
				return err
			}
			uID, err := uuid.Parse(userID)
			if err != nil {
				return err
			}

			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			app, err := bootstrap.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.Strategy.Analyze(ctx, tID, uID, cID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if summary {
				return enc.Encode(report.Summarize())
			}
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "case UUID (required)")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant UUID (required)")
	cmd.Flags().StringVar(&userID, "user", "", "user UUID (required)")
	cmd.Flags().BoolVar(&summary, "summary", false, "print only the report summary")
	_ = cmd.MarkFlagRequired("case")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
