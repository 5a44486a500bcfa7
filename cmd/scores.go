package cmd

import (
	"fmt"
	"time"

	"github.com/huangsam/evotrack/core"
	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/internal/outwriter"
	"github.com/spf13/cobra"
)

// scoresCmd groups score-history operations.
var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Record and analyze the subject's composite score history",
	Long: `Manage and analyze the bundle's score history.

Each entry is one observation of the subject's composite score in [0,1]
with a confidence and a source label. The analysis subcommands compare the
last two entries for direction, fit an ordinary-least-squares line over the
whole history, flag milestones and correlate scores with change events.

Subcommands:
  add          - Append a score entry from a JSON file
  trends       - Trend direction, prediction and anomaly analysis
  milestones   - Peak, improvement and consistency milestones
  correlations - Score shifts around change events

Examples:
  # Record a score observation
  evotrack scores add entry.json --bundle ./subject

  # Trend with a wider smoothing window
  evotrack scores trends ./subject --window 5`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// scoresAddCmd appends one score entry to the bundle.
var scoresAddCmd = &cobra.Command{
	Use:   "add <entry.json>",
	Short: "Append a score entry from a JSON file",
	Long: `Append a score-entry document to the bundle history.

The input is a single JSON object with a mandatory RFC3339 "timestamp", a
"score" in [0,1], optional per-component "components", a "confidence" and
a "source" label. A missing source falls back to --source.

Examples:
  # Record a score observation
  evotrack scores add entry.json --bundle ./subject --source composite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupBundleFlagWrapper,
	Run: func(_ *cobra.Command, args []string) {
		entry, err := readScoreEntryFile(args[0])
		if err != nil {
			contract.LogFatal("Cannot read score entry", err)
		}

		store := openBundleStore()
		if err := store.AddScoreEntry(entry); err != nil {
			contract.LogFatal("Cannot add score entry", err)
		}
		logAdded(fmt.Sprintf("Score entry %.*f at %s added to %s",
			cfg.Precision, entry.Score, entry.Timestamp.Format(contract.DateTimeFormat), store.Path()))
	},
}

// scoresTrendsCmd analyzes the score history trend.
var scoresTrendsCmd = &cobra.Command{
	Use:   "trends [bundle-path]",
	Short: "Trend direction, prediction and anomaly analysis",
	Long: `Analyze the bundle's score history.

Computes the last-two-entry trend direction (5% band for stable), an
ordinary-least-squares prediction when at least three entries exist, the
--window moving average, two-sigma anomalies and up to three monthly
projections.

Examples:
  # Trend over the default window
  evotrack scores trends ./subject

  # Restrict to one score source
  evotrack scores trends ./subject --source composite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runScoreTrends(); err != nil {
			contract.LogFatal("Cannot analyze score trends", err)
		}
	},
}

// scoresMilestonesCmd lists score milestones.
var scoresMilestonesCmd = &cobra.Command{
	Use:   "milestones [bundle-path]",
	Short: "Peak, improvement and consistency milestones",
	Long: `List the milestones of the bundle's score history: the all-time peak,
jumps greater than 0.1 between consecutive entries, and a consistency
milestone when at least three entries stay at 0.8 or above.

Examples:
  # Show milestones
  evotrack scores milestones ./subject --limit 10`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runScoreMilestones(); err != nil {
			contract.LogFatal("Cannot list score milestones", err)
		}
	},
}

// scoresCorrelationsCmd correlates scores with change events.
var scoresCorrelationsCmd = &cobra.Command{
	Use:   "correlations [bundle-path]",
	Short: "Score shifts around change events",
	Long: `Correlate the score history with the bundle's change events.

For every event with score entries inside a 30-day window on both sides,
reports the before/after averages, the delta and a weak/moderate/strong
bucket.

Examples:
  # Event/score correlations
  evotrack scores correlations ./subject`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runScoreCorrelations(); err != nil {
			contract.LogFatal("Cannot correlate scores", err)
		}
	},
}

func runScoreTrends() error {
	start := time.Now()
	analysisID := beginAnalysisRun("score_trends", start)

	history, err := loadScoreHistory(openBundleStore())
	if err != nil {
		return err
	}

	trend := core.AnalyzeScoreTrends(history)
	analysis := core.AnalyzeScoreHistory(history, cfg.Window)

	endAnalysisRun(analysisID, len(history.Entries))
	return outwriter.NewOutWriter().WriteTrends(trend, analysis, cfg, time.Since(start))
}

func runScoreMilestones() error {
	start := time.Now()
	analysisID := beginAnalysisRun("score_milestones", start)

	history, err := loadScoreHistory(openBundleStore())
	if err != nil {
		return err
	}

	milestones := core.ScoreMilestones(history)
	if len(milestones) > cfg.ResultLimit {
		milestones = milestones[:cfg.ResultLimit]
	}

	endAnalysisRun(analysisID, len(milestones))
	return outwriter.NewOutWriter().WriteMilestones(milestones, cfg, time.Since(start))
}

func runScoreCorrelations() error {
	start := time.Now()
	analysisID := beginAnalysisRun("score_correlations", start)

	store := openBundleStore()
	timeline, err := store.LoadTimeline()
	if err != nil {
		return err
	}
	history, err := loadScoreHistory(store)
	if err != nil {
		return err
	}

	correlations := core.AnalyzeScoreEventCorrelations(timeline, history)
	if len(correlations) > cfg.ResultLimit {
		correlations = correlations[:cfg.ResultLimit]
	}

	endAnalysisRun(analysisID, len(correlations))
	return outwriter.NewOutWriter().WriteCorrelations(correlations, cfg, time.Since(start))
}
