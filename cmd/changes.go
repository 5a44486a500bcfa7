package cmd

import (
	"errors"
	"time"

	"github.com/huangsam/evotrack/core"
	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/internal/outwriter"
	"github.com/spf13/cobra"
)

// changesCmd detects changes between the window's boundary snapshots.
var changesCmd = &cobra.Command{
	Use:   "changes [bundle-path]",
	Short: "Detect changes between the first and last snapshot of a window",
	Long: `Run the change detector on the boundary snapshots of the [--from, --to]
window: the earliest snapshot inside the window is the BEFORE state, the
latest is the AFTER state.

Detections cover height deltas, cosmetic-procedure metadata, relationship
claims and media asset counts, each with a fixed significance; detections
below 0.3 are filtered out.

Examples:
  # Changes across the default lookback window
  evotrack changes ./subject

  # Changes across a specific period
  evotrack changes ./subject --from 2024-01-01 --to 2024-06-30`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runChanges(); err != nil {
			contract.LogFatal("Cannot detect changes", err)
		}
	},
}

// transformationsCmd detects multi-snapshot transformation patterns.
var transformationsCmd = &cobra.Command{
	Use:   "transformations [bundle-path]",
	Short: "Detect multi-snapshot transformation patterns",
	Long: `Run the transformation detector over the whole bundle timeline.

Detects surgical, cosmetic, fitness and unknown transformations from
adjacent snapshot pairs, plus gradual patterns: fitness progressions over
three or more points, aging declines over a year or more, and repeated
cosmetic shifts.

Examples:
  # All transformation patterns
  evotrack transformations ./subject

  # JSON for downstream tooling
  evotrack transformations ./subject --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runTransformations(); err != nil {
			contract.LogFatal("Cannot detect transformations", err)
		}
	},
}

func runChanges() error {
	start := time.Now()
	analysisID := beginAnalysisRun("changes", start)

	timeline, err := openBundleStore().LoadTimeline()
	if err != nil {
		return err
	}

	snapshots := timeline.SnapshotsBetween(cfg.StartTime, cfg.EndTime)
	if len(snapshots) < 2 {
		return errors.New("need at least two snapshots in the window to detect changes")
	}

	changes := core.DetectChanges(snapshots[0], snapshots[len(snapshots)-1])
	if len(changes) > cfg.ResultLimit {
		changes = changes[:cfg.ResultLimit]
	}

	endAnalysisRun(analysisID, len(changes))
	return outwriter.NewOutWriter().WriteChanges(changes, cfg, time.Since(start))
}

func runTransformations() error {
	start := time.Now()
	analysisID := beginAnalysisRun("transformations", start)

	timeline, err := openBundleStore().LoadTimeline()
	if err != nil {
		return err
	}

	transformations := core.DetectTransformations(timeline)
	if len(transformations) > cfg.ResultLimit {
		transformations = transformations[:cfg.ResultLimit]
	}

	endAnalysisRun(analysisID, len(transformations))
	return outwriter.NewOutWriter().WriteTransformations(transformations, cfg, time.Since(start))
}
