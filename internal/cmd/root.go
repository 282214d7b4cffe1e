// Package cmd implements the triplog command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/triplog/internal/config"
	"github.com/okian/triplog/internal/ui"
	"github.com/okian/triplog/pkg/logger"
)

var (
	configPath string
	verbose    bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "triplog",
	Short: "Simulate venue check-ins along configured trips",
	Long: `triplog picks a trip at random, derives plausible check-in and
check-out times for each venue, pushes visits apart by the category
transit time, and records them through the Foursquare API when due.
After the last visit of a trip it schedules the next one at midnight.

Configuration is read from --config (or $TRIPLOG_CONFIG) and
TRIPLOG_* environment variables, with "__" separating nested keys.

Example usage:
  triplog auth --config trips.yaml
  triplog plan --config trips.yaml --seed 42
  triplog run --config trips.yaml`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors")
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func newUI() *ui.UI {
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}
	return u
}

// loadConfig reads configuration and sets up logging from it. Logs go to
// stderr so command output on stdout stays clean.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.InitWithOptions(logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr)); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}
