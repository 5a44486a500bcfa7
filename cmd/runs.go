package cmd

import (
	"errors"
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/internal/iocache"
	"github.com/huangsam/evotrack/internal/outwriter"
	"github.com/spf13/cobra"
)

// runsCmd lists recorded analysis runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded analysis runs, newest first",
	Long: `Show the most recent analysis runs from the tracking store.

Every analytic command records a run row (kind, start/end, duration,
entity count, config parameters) when --analysis-backend is configured.

Examples:
  # Last runs against the SQLite store
  EVOTRACK_ANALYSIS_BACKEND=sqlite evotrack runs

  # More rows, as CSV
  EVOTRACK_ANALYSIS_BACKEND=sqlite evotrack runs --limit 100 --output csv`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runAnalysisRuns(); err != nil {
			contract.LogFatal("Cannot list analysis runs", err)
		}
	},
}

func runAnalysisRuns() error {
	start := time.Now()

	analysisStore := iocache.Manager.GetAnalysisStore()
	if analysisStore == nil {
		return errors.New("analysis tracking is not enabled; set --analysis-backend")
	}

	limit := cfg.ResultLimit
	if limit == 0 {
		limit = contract.DefaultResultLimit
	}
	runs, err := analysisStore.ListRuns(limit)
	if err != nil {
		return err
	}

	return outwriter.NewOutWriter().WriteRuns(runs, cfg, time.Since(start))
}
