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

// WriteReportResults outputs an evolution report, dispatching based on the output format configured.
func WriteReportResults(report schema.EvolutionReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForReport(csvWriter, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(report, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeReportTable generates and writes the human-readable key/value table.
func writeReportTable(report schema.EvolutionReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Field", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"Snapshots", strconv.Itoa(report.SnapshotCount)},
		{"Total Changes", strconv.Itoa(report.TotalChanges)},
		{"Significant Changes", strconv.Itoa(report.SignificantChanges)},
		{"Overall Magnitude", fmtFloat(report.OverallMagnitude)},
		{"Avg Change Velocity", fmtFloat(report.AverageChangeVelocity)},
		{"Pattern", string(report.Pattern)},
		{"Span Days", fmtFloat(report.SpanDays)},
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	for _, kt := range report.KeyTransformations {
		if _, err := fmt.Fprintf(writer, "Key transformation: %s\n", kt); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Report generated at %s\n", report.GeneratedAt.Format(contract.DateTimeFormat)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForReport writes the evolution report as a single CSV record.
func writeCSVResultsForReport(w *csv.Writer, report schema.EvolutionReport, fmtFloat func(float64) string) error {
	header := []string{
		"snapshot_count",
		"total_changes",
		"significant_changes",
		"overall_magnitude",
		"average_change_velocity",
		"pattern",
		"key_transformations",
		"span_days",
		"generated_at",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	rec := []string{
		strconv.Itoa(report.SnapshotCount),
		strconv.Itoa(report.TotalChanges),
		strconv.Itoa(report.SignificantChanges),
		fmtFloat(report.OverallMagnitude),
		fmtFloat(report.AverageChangeVelocity),
		string(report.Pattern),
		joinStrings(report.KeyTransformations),
		fmtFloat(report.SpanDays),
		report.GeneratedAt.Format(contract.DateTimeFormat),
	}
	return w.Write(rec)
}

// WritePeriodResults outputs a period comparison, dispatching based on the output format configured.
func WritePeriodResults(comparison schema.PeriodComparison, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, comparison)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForPeriods(csvWriter, comparison, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePeriodTable(comparison, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writePeriodTable generates and writes the human-readable table.
func writePeriodTable(comparison schema.PeriodComparison, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Period", "Average", "Entries"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"A", fmtFloat(comparison.AverageA), strconv.Itoa(comparison.CountA)},
		{"B", fmtFloat(comparison.AverageB), strconv.Itoa(comparison.CountB)},
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Percent change: %s%%, significance: %s\n", fmtFloat(comparison.PercentChange), comparison.Significance); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForPeriods writes the period comparison as a single CSV record.
func writeCSVResultsForPeriods(w *csv.Writer, comparison schema.PeriodComparison, fmtFloat func(float64) string) error {
	header := []string{
		"average_a",
		"average_b",
		"count_a",
		"count_b",
		"percent_change",
		"significance",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	rec := []string{
		fmtFloat(comparison.AverageA),
		fmtFloat(comparison.AverageB),
		strconv.Itoa(comparison.CountA),
		strconv.Itoa(comparison.CountB),
		fmtFloat(comparison.PercentChange),
		string(comparison.Significance),
	}
	return w.Write(rec)
}
