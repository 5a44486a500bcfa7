// Package parquet provides data structures and functions for exporting
// evolution-tracking data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/evotrack/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single recorded analysis run with metadata.
// This struct maps to the evotrack_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// Kind names the operation that ran (report, trends, composite, ...)
	Kind string `parquet:"kind,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalEntities is the number of entities (snapshots, events or score
	// entries) the run processed
	TotalEntities int32 `parquet:"total_entities,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ScoreHistoryRow represents one score entry of a subject bundle, flattened
// for columnar export.
type ScoreHistoryRow struct {
	// Timestamp is when the score was recorded
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Score is the composite score in [0,1]
	Score float64 `parquet:"score,snappy"`

	// Confidence is the confidence of the score in [0,1]
	Confidence float64 `parquet:"confidence,snappy"`

	// Source names the scoring pipeline that produced the entry (nullable)
	Source *string `parquet:"source,optional,snappy"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the AnalysisRun struct tags
	writer := parquet.NewGenericWriter[AnalysisRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteScoreHistoryParquet writes a slice of ScoreHistoryRow structs to a Parquet file.
func WriteScoreHistoryParquet(data []ScoreHistoryRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the ScoreHistoryRow struct tags
	writer := parquet.NewGenericWriter[ScoreHistoryRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:    record.AnalysisID,
			Kind:          record.Kind,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalEntities: record.TotalEntities,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertScoreHistory converts a schema.ScoreHistory to ScoreHistoryRow values
// for Parquet export.
func ConvertScoreHistory(history schema.ScoreHistory) []ScoreHistoryRow {
	result := make([]ScoreHistoryRow, len(history.Entries))
	for i, entry := range history.Entries {
		row := ScoreHistoryRow{
			Timestamp:  entry.Timestamp,
			Score:      entry.Score,
			Confidence: entry.Confidence,
		}
		if entry.Source != "" {
			source := entry.Source
			row.Source = &source
		}
		result[i] = row
	}
	return result
}
