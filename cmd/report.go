package cmd

import (
	"time"

	"github.com/huangsam/evotrack/core"
	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportCmd generates the evolution report.
var reportCmd = &cobra.Command{
	Use:   "report [bundle-path]",
	Short: "Generate the evolution report for a time window",
	Long: `Fold the [--from, --to] window of the bundle into one evolution report:
snapshot and change counts, overall magnitude, average change velocity, a
stable/gradual/moderate/active pattern label and the key transformations.

Reports are cached in the report cache keyed by the bundle fingerprint, so
repeated runs against an unchanged bundle skip recomputation. Any write to
the bundle invalidates the cached report.

Examples:
  # Report over the default lookback window
  evotrack report ./subject

  # Report for a specific period, as JSON
  evotrack report ./subject --from 2024-01-01 --to 2024-12-31 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runReport(); err != nil {
			contract.LogFatal("Cannot generate evolution report", err)
		}
	},
}

// scorereportCmd generates the score-history report.
var scorereportCmd = &cobra.Command{
	Use:   "scorereport [bundle-path]",
	Short: "Generate the score-history report with insights",
	Long: `Fold the bundle's score history and change events into one report:
trend analysis, milestones, event correlations and plain-text insights.

Examples:
  # Full score-history report
  evotrack scorereport ./subject

  # Only entries from one source
  evotrack scorereport ./subject --source composite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runScoreReport(); err != nil {
			contract.LogFatal("Cannot generate score report", err)
		}
	},
}

func runReport() error {
	start := time.Now()
	analysisID := beginAnalysisRun("report", start)

	store := openBundleStore()
	report, err := core.CachedEvolutionReport(cfg, store, cacheManager, start)
	if err != nil {
		return err
	}

	endAnalysisRun(analysisID, report.SnapshotCount)
	return outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start))
}

func runScoreReport() error {
	start := time.Now()
	analysisID := beginAnalysisRun("scorereport", start)

	store := openBundleStore()
	timeline, err := store.LoadTimeline()
	if err != nil {
		return err
	}
	history, err := loadScoreHistory(store)
	if err != nil {
		return err
	}

	report := core.GenerateScoreHistoryReport(timeline, history, start)

	endAnalysisRun(analysisID, len(history.Entries))
	return outwriter.NewOutWriter().WriteScoreReport(report, cfg, time.Since(start))
}
