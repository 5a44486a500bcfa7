package cmd

import (
	"fmt"
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/internal/outwriter"
	"github.com/huangsam/evotrack/schema"
	"github.com/spf13/cobra"
)

// snapshotsCmd groups snapshot operations.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Add and list subject snapshots in a bundle",
	Long: `Manage the snapshot side of a timeline bundle.

A snapshot is the subject's full recorded state at one instant: a free-text
state summary, media references, externally asserted claims and a metadata
bag of derived signals. Snapshots are immutable once stored; re-adding a
snapshot with an already-known timestamp leaves the bundle untouched.

Subcommands:
  add  - Insert a snapshot from a JSON file
  list - Show snapshots within the analysis window

Examples:
  # Add a snapshot to a bundle
  evotrack snapshots add snapshot.json --bundle ./subject

  # List this year's snapshots
  evotrack snapshots list ./subject --from "1 year ago"`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// snapshotsAddCmd inserts one snapshot into the bundle.
var snapshotsAddCmd = &cobra.Command{
	Use:   "add <snapshot.json>",
	Short: "Insert a snapshot from a JSON file",
	Long: `Insert a snapshot document into the bundle timeline.

The input is a single JSON object with a mandatory RFC3339 "timestamp" and
optional "state", "media_refs", "claims" and "metadata" fields. The insert
is idempotent: a snapshot whose timestamp identity is already present is
reported and skipped without touching the bundle.

Examples:
  # Add a snapshot
  evotrack snapshots add snapshot.json --bundle ./subject

  # Re-adding the same file is safe
  evotrack snapshots add snapshot.json --bundle ./subject`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupBundleFlagWrapper,
	Run: func(_ *cobra.Command, args []string) {
		snap, err := readSnapshotFile(args[0])
		if err != nil {
			contract.LogFatal("Cannot read snapshot", err)
		}

		store := openBundleStore()
		inserted, err := store.AddSnapshot(snap)
		if err != nil {
			contract.LogFatal("Cannot add snapshot", err)
		}

		id := schema.SnapshotID(snap.Timestamp)
		if inserted {
			logAdded(fmt.Sprintf("Snapshot %s added to %s", id, store.Path()))
		} else {
			fmt.Printf("Snapshot %s already exists; bundle unchanged\n", id)
		}
	},
}

// snapshotsListCmd lists snapshots within the analysis window.
var snapshotsListCmd = &cobra.Command{
	Use:   "list [bundle-path]",
	Short: "Show snapshots within the analysis window",
	Long: `List the snapshots whose timestamps fall inside the [--from, --to]
window, oldest first, up to --limit entries.

Examples:
  # List the latest snapshots
  evotrack snapshots list ./subject

  # CSV for spreadsheets
  evotrack snapshots list ./subject --output csv --output-file snaps.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runSnapshotsList(); err != nil {
			contract.LogFatal("Cannot list snapshots", err)
		}
	},
}

func runSnapshotsList() error {
	start := time.Now()
	analysisID := beginAnalysisRun("snapshots", start)

	timeline, err := openBundleStore().LoadTimeline()
	if err != nil {
		return err
	}

	snapshots := timeline.SnapshotsBetween(cfg.StartTime, cfg.EndTime)
	if len(snapshots) > cfg.ResultLimit {
		snapshots = snapshots[:cfg.ResultLimit]
	}

	endAnalysisRun(analysisID, len(snapshots))
	return outwriter.NewOutWriter().WriteSnapshots(snapshots, cfg, time.Since(start))
}
