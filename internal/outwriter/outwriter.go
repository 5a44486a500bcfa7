// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSnapshots prints timeline snapshots using the configured output format.
func (ow *OutWriter) WriteSnapshots(snapshots []schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	return WriteSnapshotResults(snapshots, cfg, duration)
}

// WriteEvents prints change events using the configured output format.
func (ow *OutWriter) WriteEvents(events []schema.ChangeEvent, cfg *contract.Config, duration time.Duration) error {
	return WriteEventResults(events, cfg, duration)
}

// WriteChanges prints detected changes using the configured output format.
func (ow *OutWriter) WriteChanges(changes []schema.DetectedChange, cfg *contract.Config, duration time.Duration) error {
	return WriteChangeResults(changes, cfg, duration)
}

// WriteTransformations prints detected transformations using the configured output format.
func (ow *OutWriter) WriteTransformations(transformations []schema.DetectedTransformation, cfg *contract.Config, duration time.Duration) error {
	return WriteTransformationResults(transformations, cfg, duration)
}

// WriteReport prints an evolution report using the configured output format.
func (ow *OutWriter) WriteReport(report schema.EvolutionReport, cfg *contract.Config, duration time.Duration) error {
	return WriteReportResults(report, cfg, duration)
}

// WriteTrends prints trend analysis results using the configured output format.
func (ow *OutWriter) WriteTrends(trend schema.ScoreTrendAnalysis, analysis schema.TrendAnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteTrendResults(trend, analysis, cfg, duration)
}

// WriteMilestones prints score milestones using the configured output format.
func (ow *OutWriter) WriteMilestones(milestones []schema.ScoreMilestone, cfg *contract.Config, duration time.Duration) error {
	return WriteMilestoneResults(milestones, cfg, duration)
}

// WriteCorrelations prints event/score correlations using the configured output format.
func (ow *OutWriter) WriteCorrelations(correlations []schema.ScoreEventCorrelation, cfg *contract.Config, duration time.Duration) error {
	return WriteCorrelationResults(correlations, cfg, duration)
}

// WriteScoreReport prints a composed score history report using the configured output format.
func (ow *OutWriter) WriteScoreReport(report schema.ScoreHistoryReport, cfg *contract.Config, duration time.Duration) error {
	return WriteScoreReportResults(report, cfg, duration)
}

// WritePeriods prints a period comparison using the configured output format.
func (ow *OutWriter) WritePeriods(comparison schema.PeriodComparison, cfg *contract.Config, duration time.Duration) error {
	return WritePeriodResults(comparison, cfg, duration)
}

// WriteComposite prints a composite score using the configured output format.
func (ow *OutWriter) WriteComposite(score schema.CompositeScore, cfg *contract.Config, duration time.Duration) error {
	return WriteCompositeResults(score, cfg, duration)
}

// WriteRuns prints recorded analysis runs using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.AnalysisRunRecord, cfg *contract.Config, duration time.Duration) error {
	return WriteRunResults(runs, cfg, duration)
}

// GetMaxTableTextWidth calculates the maximum width for free-text columns in
// table output based on terminal width and table configuration.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	return getMaxTableTextWidth(cfg)
}
