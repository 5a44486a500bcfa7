package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteCompositeResults outputs a composite score, dispatching based on the output format configured.
func WriteCompositeResults(score schema.CompositeScore, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, score)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForComposite(csvWriter, score, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCompositeTable(score, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// sortedComponents returns the computed components ordered by weighted
// contribution, largest first, so map iteration order never leaks into output.
func sortedComponents(score schema.CompositeScore) []schema.ComponentScore {
	components := make([]schema.ComponentScore, 0, len(score.Components))
	for _, c := range score.Components {
		components = append(components, c)
	}
	sort.Slice(components, func(i, j int) bool {
		if components[i].Weighted != components[j].Weighted {
			return components[i].Weighted > components[j].Weighted
		}
		return components[i].Key < components[j].Key
	})
	return components
}

// writeCompositeTable generates and writes the human-readable table.
func writeCompositeTable(score schema.CompositeScore, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	label := labelFunc(cfg)

	table.Header([]string{"Rank", "Component", "Score", "Weighted", "Conf", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, c := range sortedComponents(score) {
		row := []string{
			strconv.Itoa(i + 1),
			string(c.Key),
			fmtFloat(c.Score),
			fmtFloat(c.Weighted),
			fmtFloat(c.Confidence),
			label(c.Score),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	// Overall score is displayed on the 0-100 scale
	if _, err := fmt.Fprintf(writer, "Overall score: %s/100 (%s), confidence: %s\n",
		fmtFloat(score.OverallScore*100), contract.GetPlainLabel(score.OverallScore), fmtFloat(score.Confidence)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Computed at %s from %d components\n",
		score.ComputedAt.Format(contract.DateTimeFormat), len(score.Components)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForComposite writes the composite score components in CSV format.
func writeCSVResultsForComposite(w *csv.Writer, score schema.CompositeScore, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"component",
		"score",
		"weighted",
		"confidence",
		"label",
		"overall_score",
		"overall_confidence",
		"computed_at",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, c := range sortedComponents(score) {
		rec := []string{
			strconv.Itoa(i + 1),
			string(c.Key),
			fmtFloat(c.Score),
			fmtFloat(c.Weighted),
			fmtFloat(c.Confidence),
			contract.GetPlainLabel(c.Score),
			fmtFloat(score.OverallScore),
			fmtFloat(score.Confidence),
			score.ComputedAt.Format(contract.DateTimeFormat),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
