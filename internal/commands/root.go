// Package commands wires the bankfeed CLI: ingestion, classification,
// rule management, and monthly summaries over one shared store.
package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/buildinfo"
	"github.com/bankfeed-dev/bankfeed/internal/config"
	"github.com/bankfeed-dev/bankfeed/internal/logger"
	"github.com/bankfeed-dev/bankfeed/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bankfeed",
		Short:   "Bank export ingestion and classification",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "bankfeed.yaml", "path to bankfeed.yaml")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newIngestCommand())
	rootCmd.AddCommand(newClassifyCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newSummaryCommand())

	return rootCmd
}

// loadConfig reads the config named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// openEnv loads config, builds the logger, and opens the store. The
// caller owns closing the store.
func openEnv(cmd *cobra.Command) (*config.Config, zerolog.Logger, *store.Bolt, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	log := logger.New(cfg.Logging.Level)
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	return cfg, log, st, nil
}
