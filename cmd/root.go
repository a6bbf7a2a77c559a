// Package cmd defines and implements the CLI commands for the fuelcrawler
// executable.
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petrolmate/crawler/internal/config"
	"github.com/petrolmate/crawler/internal/logging"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuelcrawler",
		Short: "Harvests retail fuel prices for the Petrol Mate project.",
		Long: `fuelcrawler walks a fixed catalog of cities and fuel types on a public
price-comparison site, turns the rendered listings into geocoded station
records with per-page price extremes, and publishes the result to the
Petrol Mate document store together with a freshness timestamp.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults plus FUELCRAWLER_* env)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// loadConfig reads configuration and re-initializes the global logger with
// the configured mode.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	logging.InitLogger(cfg.Logging.Development)
	return cfg, nil
}

// Execute is the main entry point.
func Execute() {
	// Bootstrap logger until config says otherwise.
	logging.InitLogger(true)

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
