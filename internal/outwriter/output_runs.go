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

// WriteRunResults outputs recorded analysis runs, dispatching based on the output format configured.
func WriteRunResults(runs []schema.AnalysisRunRecord, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForRuns(csvWriter, runs)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(runs, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeRunTable generates and writes the human-readable table.
func writeRunTable(runs []schema.AnalysisRunRecord, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"ID", "Kind", "Started", "Duration (ms)", "Entities"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		durationStr := "running"
		if r.RunDurationMs != nil {
			durationStr = strconv.FormatInt(int64(*r.RunDurationMs), 10)
		}
		row := []string{
			strconv.FormatInt(r.AnalysisID, 10),
			r.Kind,
			r.StartTime.Format(contract.DateTimeFormat),
			durationStr,
			strconv.FormatInt(int64(r.TotalEntities), 10),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d analysis runs\n", len(runs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Analysis backend: %s\n", duration, cfg.AnalysisBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForRuns writes analysis runs in CSV format.
func writeCSVResultsForRuns(w *csv.Writer, runs []schema.AnalysisRunRecord) error {
	header := []string{
		"analysis_id",
		"kind",
		"start_time",
		"end_time",
		"run_duration_ms",
		"total_entities",
		"config_params",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range runs {
		endTime := ""
		if r.EndTime != nil {
			endTime = r.EndTime.Format(contract.DateTimeFormat)
		}
		durationStr := ""
		if r.RunDurationMs != nil {
			durationStr = strconv.FormatInt(int64(*r.RunDurationMs), 10)
		}
		configParams := ""
		if r.ConfigParams != nil {
			configParams = *r.ConfigParams
		}
		rec := []string{
			strconv.FormatInt(r.AnalysisID, 10),
			r.Kind,
			r.StartTime.Format(contract.DateTimeFormat),
			endTime,
			durationStr,
			strconv.FormatInt(int64(r.TotalEntities), 10),
			configParams,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
