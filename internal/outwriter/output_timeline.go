package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSnapshotResults outputs timeline snapshots, dispatching based on the output format configured.
func WriteSnapshotResults(snapshots []schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeSnapshotJSONResults(snapshots, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSnapshotCSVResults(snapshots, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotTable(snapshots, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeSnapshotJSONResults handles opening the file and calling the JSON writer.
func writeSnapshotJSONResults(snapshots []schema.Snapshot, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForSnapshots(w, snapshots)
	}, "Wrote JSON")
}

// writeSnapshotCSVResults handles opening the file and calling the CSV writer.
func writeSnapshotCSVResults(snapshots []schema.Snapshot, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForSnapshots(csvWriter, snapshots)
	}, "Wrote CSV")
}

// writeSnapshotTable generates and writes the human-readable table.
func writeSnapshotTable(snapshots []schema.Snapshot, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Timestamp", "State", "Claims", "Media"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, s := range snapshots {
		row := []string{
			strconv.Itoa(i + 1), // Rank
			s.Timestamp.Format(contract.DateTimeFormat),
			contract.TruncatePath(s.State, getMaxTableTextWidth(cfg)),
			strconv.Itoa(len(s.Claims)),
			strconv.Itoa(len(s.MediaRefs)),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d snapshots\n", len(snapshots)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForSnapshots writes the snapshot listing in CSV format.
func writeCSVResultsForSnapshots(w *csv.Writer, snapshots []schema.Snapshot) error {
	header := []string{
		"rank",
		"snapshot_id",
		"timestamp",
		"state",
		"claims",
		"media_refs",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, s := range snapshots {
		rec := []string{
			strconv.Itoa(i + 1),
			schema.SnapshotID(s.Timestamp),
			s.Timestamp.Format(contract.DateTimeFormat),
			s.State,
			strconv.Itoa(len(s.Claims)),
			joinStrings(s.MediaRefs),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForSnapshots writes the snapshot listing in JSON format.
func writeJSONResultsForSnapshots(w io.Writer, snapshots []schema.Snapshot) error {
	// Prepare the data structure for JSON with rank and derived ID added
	type JSONSnapshot struct {
		Rank       int    `json:"rank"`
		SnapshotID string `json:"snapshot_id"`
		schema.Snapshot
	}

	output := make([]JSONSnapshot, len(snapshots))
	for i, s := range snapshots {
		output[i] = JSONSnapshot{
			Rank:       i + 1,
			SnapshotID: schema.SnapshotID(s.Timestamp),
			Snapshot:   s,
		}
	}

	return writeJSON(w, output)
}

// WriteEventResults outputs change events, dispatching based on the output format configured.
func WriteEventResults(events []schema.ChangeEvent, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeEventJSONResults(events, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeEventCSVResults(events, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEventTable(events, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeEventJSONResults handles opening the file and calling the JSON writer.
func writeEventJSONResults(events []schema.ChangeEvent, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForEvents(w, events)
	}, "Wrote JSON")
}

// writeEventCSVResults handles opening the file and calling the CSV writer.
func writeEventCSVResults(events []schema.ChangeEvent, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForEvents(csvWriter, events, fmtFloat)
	}, "Wrote CSV")
}

// writeEventTable generates and writes the human-readable table.
func writeEventTable(events []schema.ChangeEvent, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	label := labelFunc(cfg)

	headers := []string{"Rank", "Timestamp", "Type", "Description", "Conf", "Label"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, ev := range events {
		row := []string{
			strconv.Itoa(i + 1),
			ev.Timestamp.Format(contract.DateTimeFormat),
			string(ev.Type),
			contract.TruncatePath(ev.Description, getMaxTableTextWidth(cfg)),
			fmtFloat(ev.Confidence),
			label(ev.Confidence),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d change events\n", len(events)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForEvents writes change events in CSV format.
func writeCSVResultsForEvents(w *csv.Writer, events []schema.ChangeEvent, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"id",
		"timestamp",
		"type",
		"description",
		"confidence",
		"label",
		"source_urls",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, ev := range events {
		rec := []string{
			strconv.Itoa(i + 1),
			ev.ID,
			ev.Timestamp.Format(contract.DateTimeFormat),
			string(ev.Type),
			ev.Description,
			fmtFloat(ev.Confidence),
			contract.GetPlainLabel(ev.Confidence),
			joinStrings(ev.SourceURLs),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForEvents writes change events in JSON format.
func writeJSONResultsForEvents(w io.Writer, events []schema.ChangeEvent) error {
	type JSONChangeEvent struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.ChangeEvent
	}

	output := make([]JSONChangeEvent, len(events))
	for i, ev := range events {
		output[i] = JSONChangeEvent{
			Rank:        i + 1,
			Label:       contract.GetPlainLabel(ev.Confidence),
			ChangeEvent: ev,
		}
	}

	return writeJSON(w, output)
}
