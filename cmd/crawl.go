package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petrolmate/crawler/internal/logging"
)

// newCrawlCmd creates and configures the 'crawl' subcommand. It performs one
// full run across the catalog and exits: 0 on completion, 1 on an unhandled
// run failure.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Runs one crawl over every city and fuel type",
		Long: `Performs a single crawl run: every city/fuel-type combination is
fetched, extracted, geocoded, aggregated and written to the document store,
followed by the run's freshness timestamp.`,

		RunE: runCrawlCommand,
	}
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	orch, cleanup, err := buildOrchestrator(cmd.Context(), cfg, logging.L)
	if err != nil {
		return fmt.Errorf("build orchestrator: %w", err)
	}
	defer cleanup()

	run, err := orch.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}

	logging.L.Info("Crawl command finished.",
		zap.String("run_id", run.ID),
		zap.Duration("duration", run.Duration()))
	return nil
}
