package outwriter

import (
	"testing"
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutWriter(t *testing.T) {
	ow := NewOutWriter()
	assert.NotNil(t, ow)
}

func TestOutWriterFacade(t *testing.T) {
	ow := NewOutWriter()
	trend, analysis := sampleTrend()

	tests := []struct {
		name  string
		write func(cfg *contract.Config) error
	}{
		{
			name: "snapshots",
			write: func(cfg *contract.Config) error {
				return ow.WriteSnapshots(sampleSnapshots(), cfg, time.Millisecond)
			},
		},
		{
			name: "events",
			write: func(cfg *contract.Config) error {
				return ow.WriteEvents(sampleEvents(), cfg, time.Millisecond)
			},
		},
		{
			name: "changes",
			write: func(cfg *contract.Config) error {
				return ow.WriteChanges(sampleChanges(), cfg, time.Millisecond)
			},
		},
		{
			name: "transformations",
			write: func(cfg *contract.Config) error {
				return ow.WriteTransformations(sampleTransformations(), cfg, time.Millisecond)
			},
		},
		{
			name: "report",
			write: func(cfg *contract.Config) error {
				return ow.WriteReport(sampleReport(), cfg, time.Millisecond)
			},
		},
		{
			name: "trends",
			write: func(cfg *contract.Config) error {
				return ow.WriteTrends(trend, analysis, cfg, time.Millisecond)
			},
		},
		{
			name: "milestones",
			write: func(cfg *contract.Config) error {
				return ow.WriteMilestones(sampleMilestones(), cfg, time.Millisecond)
			},
		},
		{
			name: "correlations",
			write: func(cfg *contract.Config) error {
				return ow.WriteCorrelations(sampleCorrelations(), cfg, time.Millisecond)
			},
		},
		{
			name: "score report",
			write: func(cfg *contract.Config) error {
				report := schema.ScoreHistoryReport{Trend: trend, GeneratedAt: time.Now()}
				return ow.WriteScoreReport(report, cfg, time.Millisecond)
			},
		},
		{
			name: "periods",
			write: func(cfg *contract.Config) error {
				comparison := schema.PeriodComparison{Significance: schema.MinimalSignificance}
				return ow.WritePeriods(comparison, cfg, time.Millisecond)
			},
		},
		{
			name: "composite",
			write: func(cfg *contract.Config) error {
				return ow.WriteComposite(sampleCompositeScore(), cfg, time.Millisecond)
			},
		},
		{
			name: "runs",
			write: func(cfg *contract.Config) error {
				return ow.WriteRuns(sampleRuns(), cfg, time.Millisecond)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{
				Precision:  2,
				Output:     schema.JSONOut,
				OutputFile: t.TempDir() + "/facade.json",
				Width:      120,
			}
			require.NoError(t, tt.write(cfg))
		})
	}
}
