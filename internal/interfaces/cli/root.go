// Package cli implements the lexia command-line interface: serving the API,
// running migrations and one-shot case analysis.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the lexia command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lexia",
		Short: "Lexia legal intelligence platform",
		Long: "Lexia runs AI-assisted strategic analysis and document drafting\n" +
			"for legal case management.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "configs/config.yaml", "config file path")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newAnalyzeCmd(opts),
	)
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *rootOptions) load() (*config.Config, logging.Logger, error) {
	var cfg *config.Config
	var err error
	if _, statErr := os.Stat(o.configPath); statErr == nil {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	logger, err := logging.NewLogger(logging.Config{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
