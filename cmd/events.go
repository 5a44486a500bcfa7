package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/internal/outwriter"
	"github.com/spf13/cobra"
)

// eventsCmd groups change-event operations.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Add and list externally asserted change events",
	Long: `Manage the change-event side of a timeline bundle.

A change event is an externally asserted (not detected) notable change with
its own confidence, recorded independently of any snapshot pair: a career
move, a reported procedure, a relationship change.

Subcommands:
  add  - Append a change event from a JSON file
  list - Show change events within the analysis window

Examples:
  # Record an asserted event
  evotrack events add event.json --bundle ./subject

  # List only health events
  evotrack events list ./subject --type health`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// eventsAddCmd appends one change event to the bundle.
var eventsAddCmd = &cobra.Command{
	Use:   "add <event.json>",
	Short: "Append a change event from a JSON file",
	Long: `Append a change-event document to the bundle timeline.

The input is a single JSON object with a mandatory RFC3339 "timestamp", a
"type" (physical_appearance, lifestyle, career, health, relationships,
other; defaults to other), a "description", a "confidence" in [0,1] and
optional "source_urls" and "metadata". A missing "id" is filled with a
generated UUID.

Examples:
  # Record an asserted event
  evotrack events add event.json --bundle ./subject`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupBundleFlagWrapper,
	Run: func(_ *cobra.Command, args []string) {
		ev, err := readChangeEventFile(args[0])
		if err != nil {
			contract.LogFatal("Cannot read change event", err)
		}
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}

		store := openBundleStore()
		if err := store.AddChangeEvent(ev); err != nil {
			contract.LogFatal("Cannot add change event", err)
		}
		logAdded(fmt.Sprintf("Change event %s (%s) added to %s", ev.ID, ev.Type, store.Path()))
	},
}

// eventsListCmd lists change events within the analysis window.
var eventsListCmd = &cobra.Command{
	Use:   "list [bundle-path]",
	Short: "Show change events within the analysis window",
	Long: `List the change events whose timestamps fall inside the [--from, --to]
window, oldest first, up to --limit entries. The --type flag narrows the
listing to a single change type.

Examples:
  # All recent events
  evotrack events list ./subject

  # Only lifestyle events, as JSON
  evotrack events list ./subject --type lifestyle --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runEventsList(); err != nil {
			contract.LogFatal("Cannot list events", err)
		}
	},
}

func runEventsList() error {
	start := time.Now()
	analysisID := beginAnalysisRun("events", start)

	timeline, err := openBundleStore().LoadTimeline()
	if err != nil {
		return err
	}

	if cfg.EventType != "" {
		timeline.ChangeEvents = timeline.ChangeEventsOfType(cfg.EventType)
	}
	events := timeline.ChangeEventsBetween(cfg.StartTime, cfg.EndTime)
	if len(events) > cfg.ResultLimit {
		events = events[:cfg.ResultLimit]
	}

	endAnalysisRun(analysisID, len(events))
	return outwriter.NewOutWriter().WriteEvents(events, cfg, time.Since(start))
}
