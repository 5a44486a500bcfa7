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

// significantChangeThreshold marks changes that warrant extra attention
// in the table summary.
const significantChangeThreshold = 0.7

// WriteChangeResults outputs detected changes, dispatching based on the output format configured.
func WriteChangeResults(changes []schema.DetectedChange, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeChangeJSONResults(changes, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeChangeCSVResults(changes, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChangeTable(changes, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeChangeJSONResults handles opening the file and calling the JSON writer.
func writeChangeJSONResults(changes []schema.DetectedChange, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForChanges(w, changes)
	}, "Wrote JSON")
}

// writeChangeCSVResults handles opening the file and calling the CSV writer.
func writeChangeCSVResults(changes []schema.DetectedChange, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForChanges(csvWriter, changes, fmtFloat)
	}, "Wrote CSV")
}

// writeChangeTable generates and writes the human-readable table.
func writeChangeTable(changes []schema.DetectedChange, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	label := labelFunc(cfg)

	headers := []string{"Rank", "Type", "Description", "Signif", "Conf", "Label"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	significant := 0
	for i, c := range changes {
		if c.Significance > significantChangeThreshold {
			significant++
		}
		row := []string{
			strconv.Itoa(i + 1),
			string(c.Type),
			contract.TruncatePath(c.Description, getMaxTableTextWidth(cfg)),
			fmtFloat(c.Significance),
			fmtFloat(c.Confidence),
			label(c.Significance),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d detected changes (%d significant)\n", len(changes), significant); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForChanges writes detected changes in CSV format.
func writeCSVResultsForChanges(w *csv.Writer, changes []schema.DetectedChange, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"type",
		"description",
		"significance",
		"confidence",
		"label",
		"evidence",
		"tags",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, c := range changes {
		tags := make([]string, len(c.Tags))
		for j, t := range c.Tags {
			tags[j] = string(t)
		}
		rec := []string{
			strconv.Itoa(i + 1),
			string(c.Type),
			c.Description,
			fmtFloat(c.Significance),
			fmtFloat(c.Confidence),
			contract.GetPlainLabel(c.Significance),
			joinStrings(c.Evidence),
			joinStrings(tags),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForChanges writes detected changes in JSON format.
func writeJSONResultsForChanges(w io.Writer, changes []schema.DetectedChange) error {
	type JSONDetectedChange struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.DetectedChange
	}

	output := make([]JSONDetectedChange, len(changes))
	for i, c := range changes {
		output[i] = JSONDetectedChange{
			Rank:           i + 1,
			Label:          contract.GetPlainLabel(c.Significance),
			DetectedChange: c,
		}
	}

	return writeJSON(w, output)
}

// WriteTransformationResults outputs detected transformations, dispatching based on the output format configured.
func WriteTransformationResults(transformations []schema.DetectedTransformation, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeTransformationJSONResults(transformations, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeTransformationCSVResults(transformations, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTransformationTable(transformations, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeTransformationJSONResults handles opening the file and calling the JSON writer.
func writeTransformationJSONResults(transformations []schema.DetectedTransformation, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForTransformations(w, transformations)
	}, "Wrote JSON")
}

// writeTransformationCSVResults handles opening the file and calling the CSV writer.
func writeTransformationCSVResults(transformations []schema.DetectedTransformation, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForTransformations(csvWriter, transformations, fmtFloat)
	}, "Wrote CSV")
}

// writeTransformationTable generates and writes the human-readable table.
func writeTransformationTable(transformations []schema.DetectedTransformation, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	label := labelFunc(cfg)

	headers := []string{"Rank", "Type", "Description", "Start", "End", "Days", "Conf", "Label"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, tr := range transformations {
		spanDays := tr.EndTime.Sub(tr.StartTime).Hours() / 24
		row := []string{
			strconv.Itoa(i + 1),
			string(tr.Type),
			contract.TruncatePath(tr.Description, getMaxTableTextWidth(cfg)),
			tr.StartTime.Format("2006-01-02"),
			tr.EndTime.Format("2006-01-02"),
			fmt.Sprintf("%.0f", spanDays),
			fmtFloat(tr.Confidence),
			label(tr.Confidence),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d detected transformations\n", len(transformations)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForTransformations writes detected transformations in CSV format.
func writeCSVResultsForTransformations(w *csv.Writer, transformations []schema.DetectedTransformation, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"type",
		"description",
		"start_time",
		"end_time",
		"start_snapshot_id",
		"end_snapshot_id",
		"confidence",
		"label",
		"evidence",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, tr := range transformations {
		rec := []string{
			strconv.Itoa(i + 1),
			string(tr.Type),
			tr.Description,
			tr.StartTime.Format(contract.DateTimeFormat),
			tr.EndTime.Format(contract.DateTimeFormat),
			tr.StartSnapshotID,
			tr.EndSnapshotID,
			fmtFloat(tr.Confidence),
			contract.GetPlainLabel(tr.Confidence),
			joinStrings(tr.Evidence),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForTransformations writes detected transformations in JSON format.
func writeJSONResultsForTransformations(w io.Writer, transformations []schema.DetectedTransformation) error {
	type JSONDetectedTransformation struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.DetectedTransformation
	}

	output := make([]JSONDetectedTransformation, len(transformations))
	for i, tr := range transformations {
		output[i] = JSONDetectedTransformation{
			Rank:                   i + 1,
			Label:                  contract.GetPlainLabel(tr.Confidence),
			DetectedTransformation: tr,
		}
	}

	return writeJSON(w, output)
}
