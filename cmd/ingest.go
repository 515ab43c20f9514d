// Package cmd defines and implements the CLI commands for the boewatcher
// executable.
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fransm/boe-watcher/internal/gazette"
)

// newIngestCmd creates the 'ingest' subcommand, which performs a single
// ingestion run and exits.
func newIngestCmd() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Runs one ingestion pass against the BOE",
		Long: `Fetches the most recent BOE daily summary, extracts the oposiciones y
concursos section, stores any announcements not seen before, and dispatches a
digest when new rows land. Intended for cron jobs and manual backfills.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			logger := appInstance.Logger()

			var target time.Time
			if dateFlag != "" {
				target, err = time.Parse(gazette.DateLayout, dateFlag)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYYMMDD: %w", dateFlag, err)
				}
			}

			outcome, err := appInstance.Runner().Run(cmd.Context(), target)
			if err != nil {
				return fmt.Errorf("ingestion run %s failed: %w", outcome.RunID, err)
			}

			logger.Info("Ingestion run finished",
				zap.String("run_id", outcome.RunID),
				zap.String("status", string(outcome.Status)),
				zap.String("source_date", outcome.Result.SourceDate),
				zap.Int("new", len(outcome.Result.NewlyInserted)),
				zap.Int("seen", outcome.Result.TotalSeen),
			)
			if outcome.Warning != "" {
				logger.Warn("Run completed with warning", zap.String("warning", outcome.Warning))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "start date for the lookback probe, YYYYMMDD (default today)")

	return cmd
}
