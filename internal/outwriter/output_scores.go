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

// trendResults pairs the headline trend with its companion regression
// analysis so both travel together through JSON output.
type trendResults struct {
	Trend    schema.ScoreTrendAnalysis  `json:"trend"`
	Analysis schema.TrendAnalysisResult `json:"analysis"`
}

// WriteTrendResults outputs trend analysis results, dispatching based on the output format configured.
func WriteTrendResults(trend schema.ScoreTrendAnalysis, analysis schema.TrendAnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, trendResults{Trend: trend, Analysis: analysis})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForTrends(csvWriter, trend, analysis, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendTable(trend, analysis, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeTrendTable generates and writes the human-readable table.
func writeTrendTable(trend schema.ScoreTrendAnalysis, analysis schema.TrendAnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Field", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	prediction := "n/a"
	if trend.Prediction != nil {
		prediction = fmtFloat(*trend.Prediction)
	}
	data := [][]string{
		{"Direction", string(trend.Direction)},
		{"Magnitude", fmtFloat(trend.Magnitude)},
		{"Prediction", prediction},
		{"Confidence", fmtFloat(trend.Confidence)},
		{"Slope", fmtFloat(analysis.Slope)},
		{"Intercept", fmtFloat(analysis.Intercept)},
		{"Anomalies", strconv.Itoa(len(analysis.Anomalies))},
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	for _, p := range analysis.Predictions {
		if _, err := fmt.Fprintf(writer, "Projected %s: %s (confidence %s)\n",
			p.Timestamp.Format("2006-01-02"), fmtFloat(p.Score), fmtFloat(p.Confidence)); err != nil {
			return err
		}
	}
	for _, a := range analysis.Anomalies {
		if _, err := fmt.Fprintf(writer, "Anomaly at %s: %s (%s, %s stdev)\n",
			a.Timestamp.Format("2006-01-02"), fmtFloat(a.Score), a.Kind, fmtFloat(a.Deviation)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForTrends writes the headline trend as a single CSV record.
func writeCSVResultsForTrends(w *csv.Writer, trend schema.ScoreTrendAnalysis, analysis schema.TrendAnalysisResult, fmtFloat func(float64) string) error {
	header := []string{
		"direction",
		"magnitude",
		"prediction",
		"confidence",
		"slope",
		"intercept",
		"anomalies",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	prediction := ""
	if trend.Prediction != nil {
		prediction = fmtFloat(*trend.Prediction)
	}
	rec := []string{
		string(trend.Direction),
		fmtFloat(trend.Magnitude),
		prediction,
		fmtFloat(trend.Confidence),
		fmtFloat(analysis.Slope),
		fmtFloat(analysis.Intercept),
		strconv.Itoa(len(analysis.Anomalies)),
	}
	return w.Write(rec)
}

// WriteMilestoneResults outputs score milestones, dispatching based on the output format configured.
func WriteMilestoneResults(milestones []schema.ScoreMilestone, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForMilestones(w, milestones)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForMilestones(csvWriter, milestones, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMilestoneTable(milestones, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeMilestoneTable generates and writes the human-readable table.
func writeMilestoneTable(milestones []schema.ScoreMilestone, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	label := labelFunc(cfg)

	table.Header([]string{"Rank", "Type", "Timestamp", "Score", "Label", "Description"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, m := range milestones {
		row := []string{
			strconv.Itoa(i + 1),
			string(m.Type),
			m.Timestamp.Format("2006-01-02"),
			fmtFloat(m.Score),
			label(m.Score),
			contract.TruncatePath(m.Description, getMaxTableTextWidth(cfg)),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d milestones\n", len(milestones)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForMilestones writes score milestones in CSV format.
func writeCSVResultsForMilestones(w *csv.Writer, milestones []schema.ScoreMilestone, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"type",
		"timestamp",
		"score",
		"label",
		"description",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, m := range milestones {
		rec := []string{
			strconv.Itoa(i + 1),
			string(m.Type),
			m.Timestamp.Format(contract.DateTimeFormat),
			fmtFloat(m.Score),
			contract.GetPlainLabel(m.Score),
			m.Description,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForMilestones writes score milestones in JSON format.
func writeJSONResultsForMilestones(w io.Writer, milestones []schema.ScoreMilestone) error {
	type JSONScoreMilestone struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.ScoreMilestone
	}

	output := make([]JSONScoreMilestone, len(milestones))
	for i, m := range milestones {
		output[i] = JSONScoreMilestone{
			Rank:           i + 1,
			Label:          contract.GetPlainLabel(m.Score),
			ScoreMilestone: m,
		}
	}

	return writeJSON(w, output)
}

// WriteCorrelationResults outputs event/score correlations, dispatching based on the output format configured.
func WriteCorrelationResults(correlations []schema.ScoreEventCorrelation, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, correlations)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForCorrelations(csvWriter, correlations, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCorrelationTable(correlations, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeCorrelationTable generates and writes the human-readable table.
func writeCorrelationTable(correlations []schema.ScoreEventCorrelation, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Rank", "Event", "Type", "Time", "Before", "After", "Delta", "Strength"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, c := range correlations {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(c.EventID, getMaxTableTextWidth(cfg)),
			string(c.EventType),
			c.EventTime.Format("2006-01-02"),
			fmtFloat(c.AvgBefore),
			fmtFloat(c.AvgAfter),
			fmtFloat(c.Delta),
			string(c.Strength),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d correlations\n", len(correlations)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForCorrelations writes event/score correlations in CSV format.
func writeCSVResultsForCorrelations(w *csv.Writer, correlations []schema.ScoreEventCorrelation, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"event_id",
		"event_type",
		"event_time",
		"avg_before",
		"avg_after",
		"delta",
		"strength",
		"sample_count",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, c := range correlations {
		rec := []string{
			strconv.Itoa(i + 1),
			c.EventID,
			string(c.EventType),
			c.EventTime.Format(contract.DateTimeFormat),
			fmtFloat(c.AvgBefore),
			fmtFloat(c.AvgAfter),
			fmtFloat(c.Delta),
			string(c.Strength),
			strconv.Itoa(c.SampleCount),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteScoreReportResults outputs a composed score history report, dispatching based on the output format configured.
func WriteScoreReportResults(report schema.ScoreHistoryReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		// The composed report flattens to its milestone rows for CSV; trend
		// and insights stay in the JSON and table renderings.
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForMilestones(csvWriter, report.Milestones, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreReportText(report, cfg, fmtFloat, duration, w)
		}, "Wrote report")
	}
	return nil
}

// writeScoreReportText writes the composed report as a trend summary followed
// by milestone, correlation and insight lines.
func writeScoreReportText(report schema.ScoreHistoryReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	prediction := "n/a"
	if report.Trend.Prediction != nil {
		prediction = fmtFloat(*report.Trend.Prediction)
	}
	if _, err := fmt.Fprintf(writer, "Trend: %s (magnitude %s, prediction %s, confidence %s)\n",
		report.Trend.Direction, fmtFloat(report.Trend.Magnitude), prediction, fmtFloat(report.Trend.Confidence)); err != nil {
		return err
	}
	for _, m := range report.Milestones {
		if _, err := fmt.Fprintf(writer, "Milestone [%s] %s: %s\n",
			m.Type, m.Timestamp.Format("2006-01-02"), m.Description); err != nil {
			return err
		}
	}
	for _, c := range report.Correlations {
		if _, err := fmt.Fprintf(writer, "Correlation %s (%s): delta %s, strength %s\n",
			c.EventID, c.EventType, fmtFloat(c.Delta), c.Strength); err != nil {
			return err
		}
	}
	for _, insight := range report.Insights {
		if _, err := fmt.Fprintf(writer, "Insight: %s\n", insight); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Report generated at %s\n", report.GeneratedAt.Format(contract.DateTimeFormat)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}
