package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/mealwise/internal/config"
	"github.com/dukerupert/mealwise/internal/logging"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options holds flag values that override the environment.
type options struct {
	port   int
	dbPath string
}

func rootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "mealwise",
		Short:         "Family meal planning service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides MEALWISE_DB_PATH)")

	rootCmd.AddCommand(
		serveCommand(opts),
		migrateCommand(opts),
		seedCommand(opts),
		tokenCommand(opts),
	)
	return rootCmd
}

// loadConfig reads the environment and applies flag overrides. Validation
// is left to commands that need the full configuration.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Decode()
	if err != nil {
		return nil, err
	}
	if opts.port != 0 {
		cfg.Port = opts.port
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}
