package core

import (
	"testing"
	"time"

	"github.com/huangsam/evotrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyOf(scores ...float64) schema.ScoreHistory {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := make([]schema.ScoreEntry, len(scores))
	for i, s := range scores {
		entries[i] = schema.ScoreEntry{
			Timestamp: base.AddDate(0, 0, i*10),
			Score:     s,
			Source:    "test",
		}
	}
	return schema.NewScoreHistory(entries)
}

// TestTrendStability: a constant history is stable with full confidence and
// a prediction right at the constant value.
func TestTrendStability(t *testing.T) {
	analysis := AnalyzeScoreTrends(historyOf(0.5, 0.5, 0.5, 0.5))
	assert.Equal(t, schema.StableTrend, analysis.Direction)
	assert.Equal(t, 1.0, analysis.Confidence)
	assert.Zero(t, analysis.Magnitude)
	require.NotNil(t, analysis.Prediction)
	assert.InDelta(t, 0.5, *analysis.Prediction, 1e-9)
}

func TestTrendDirections(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64
		expected schema.TrendDirection
	}{
		{"improving beyond 5%", []float64{0.5, 0.5, 0.56}, schema.ImprovingTrend},
		{"declining beyond 5%", []float64{0.5, 0.5, 0.44}, schema.DecliningTrend},
		{"inside the stable band", []float64{0.5, 0.5, 0.52}, schema.StableTrend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnalyzeScoreTrends(historyOf(tt.scores...)).Direction)
		})
	}
}

func TestTrendInsufficientData(t *testing.T) {
	analysis := AnalyzeScoreTrends(historyOf(0.7))
	assert.Equal(t, schema.StableTrend, analysis.Direction)
	assert.Equal(t, 0.5, analysis.Confidence)
	assert.Nil(t, analysis.Prediction)

	// Two entries move the trend but still withhold a prediction.
	analysis = AnalyzeScoreTrends(historyOf(0.5, 0.6))
	assert.Equal(t, schema.ImprovingTrend, analysis.Direction)
	assert.Nil(t, analysis.Prediction)
}

// TestComparePeriods: averages 0.70 vs 0.78 give an 11.4% change, bucketed major.
func TestComparePeriods(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	history := schema.NewScoreHistory([]schema.ScoreEntry{
		{Timestamp: base.AddDate(0, 0, 1), Score: 0.68},
		{Timestamp: base.AddDate(0, 0, 5), Score: 0.72},
		{Timestamp: base.AddDate(0, 1, 1), Score: 0.76},
		{Timestamp: base.AddDate(0, 1, 5), Score: 0.80},
	})

	result := CompareScorePeriods(history,
		base, base.AddDate(0, 0, 15),
		base.AddDate(0, 1, 0), base.AddDate(0, 1, 15),
	)
	assert.Equal(t, 2, result.CountA)
	assert.Equal(t, 2, result.CountB)
	assert.InDelta(t, 0.70, result.AverageA, 1e-9)
	assert.InDelta(t, 0.78, result.AverageB, 1e-9)
	assert.InDelta(t, 100*0.08/0.70, result.PercentChange, 1e-9)
	assert.Equal(t, schema.MajorSignificance, result.Significance)
}

func TestComparePeriodsEmptyA(t *testing.T) {
	history := historyOf(0.5, 0.6)
	farFuture := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	result := CompareScorePeriods(history, farFuture, farFuture.AddDate(0, 1, 0),
		history.Entries[0].Timestamp, history.Entries[1].Timestamp)
	assert.Zero(t, result.AverageA)
	assert.Zero(t, result.PercentChange)
	assert.Equal(t, schema.MinimalSignificance, result.Significance)
}

func TestSignificanceBuckets(t *testing.T) {
	tests := []struct {
		pct      float64
		expected schema.Significance
	}{
		{0.5, schema.MinimalSignificance},
		{-3, schema.ModerateSignificance},
		{7, schema.SignificantSignificance},
		{-12, schema.MajorSignificance},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, significanceForPercent(tt.pct))
	}
}

// TestScoreMilestones: [0.5, 0.62, 0.6, 0.85] yields one peak (0.85) and
// improvements for 0.5->0.62 and 0.6->0.85 only.
func TestScoreMilestones(t *testing.T) {
	milestones := ScoreMilestones(historyOf(0.5, 0.62, 0.6, 0.85))
	require.Len(t, milestones, 3)

	assert.Equal(t, schema.PeakScoreMilestone, milestones[0].Type)
	assert.InDelta(t, 0.85, milestones[0].Score, 1e-9)

	assert.Equal(t, schema.ImprovementMilestone, milestones[1].Type)
	assert.InDelta(t, 0.62, milestones[1].Score, 1e-9)
	assert.Equal(t, schema.ImprovementMilestone, milestones[2].Type)
	assert.InDelta(t, 0.85, milestones[2].Score, 1e-9)
}

func TestScoreMilestonesConsistency(t *testing.T) {
	milestones := ScoreMilestones(historyOf(0.82, 0.85, 0.9, 0.84))
	var consistency *schema.ScoreMilestone
	for i := range milestones {
		if milestones[i].Type == schema.ConsistencyMilestone {
			consistency = &milestones[i]
		}
	}
	require.NotNil(t, consistency)
	assert.InDelta(t, (0.82+0.85+0.9+0.84)/4, consistency.Score, 1e-9)

	// Only two entries above the floor: no consistency milestone.
	for _, m := range ScoreMilestones(historyOf(0.82, 0.85, 0.5)) {
		assert.NotEqual(t, schema.ConsistencyMilestone, m.Type)
	}

	assert.Nil(t, ScoreMilestones(schema.ScoreHistory{}))
}

func TestScoreEventCorrelations(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tl := schema.NewTimeline(base)
	tl.InsertChangeEvent(schema.ChangeEvent{
		ID: "ev-1", Timestamp: base, Type: schema.HealthChange,
	}, base)

	history := schema.NewScoreHistory([]schema.ScoreEntry{
		{Timestamp: base.AddDate(0, 0, -20), Score: 0.50},
		{Timestamp: base.AddDate(0, 0, -10), Score: 0.52},
		{Timestamp: base.AddDate(0, 0, 10), Score: 0.70},
		{Timestamp: base.AddDate(0, 0, 20), Score: 0.68},
	})

	correlations := AnalyzeScoreEventCorrelations(tl, history)
	require.Len(t, correlations, 1)
	got := correlations[0]
	assert.Equal(t, "ev-1", got.EventID)
	assert.InDelta(t, 0.51, got.AvgBefore, 1e-9)
	assert.InDelta(t, 0.69, got.AvgAfter, 1e-9)
	assert.Equal(t, schema.StrongCorrelation, got.Strength)
	assert.Equal(t, 4, got.SampleCount)
}

func TestScoreEventCorrelationsRequireBothSides(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tl := schema.NewTimeline(base)
	tl.InsertChangeEvent(schema.ChangeEvent{ID: "ev-1", Timestamp: base}, base)

	// Two entries, both after the event: skipped.
	history := schema.NewScoreHistory([]schema.ScoreEntry{
		{Timestamp: base.AddDate(0, 0, 5), Score: 0.5},
		{Timestamp: base.AddDate(0, 0, 10), Score: 0.6},
	})
	assert.Empty(t, AnalyzeScoreEventCorrelations(tl, history))

	// Entries outside the 30-day window: skipped.
	history = schema.NewScoreHistory([]schema.ScoreEntry{
		{Timestamp: base.AddDate(0, 0, -40), Score: 0.5},
		{Timestamp: base.AddDate(0, 0, 40), Score: 0.6},
	})
	assert.Empty(t, AnalyzeScoreEventCorrelations(tl, history))
}

func TestCorrelationStrengthBuckets(t *testing.T) {
	assert.Equal(t, schema.StrongCorrelation, correlationStrength(-0.2))
	assert.Equal(t, schema.ModerateCorrelation, correlationStrength(0.07))
	assert.Equal(t, schema.WeakCorrelation, correlationStrength(0.05))
	assert.Equal(t, schema.WeakCorrelation, correlationStrength(0.01))
}

func TestGenerateScoreHistoryReportInsights(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tl := schema.NewTimeline(base)
	tl.InsertChangeEvent(schema.ChangeEvent{ID: "ev-1", Timestamp: base, Type: schema.HealthChange}, base)

	history := schema.NewScoreHistory([]schema.ScoreEntry{
		{Timestamp: base.AddDate(0, 0, -20), Score: 0.50},
		{Timestamp: base.AddDate(0, 0, -10), Score: 0.52},
		{Timestamp: base.AddDate(0, 0, 10), Score: 0.70},
		{Timestamp: base.AddDate(0, 0, 20), Score: 0.85},
	})

	report := GenerateScoreHistoryReport(tl, history, base.AddDate(0, 1, 0))
	assert.Equal(t, schema.ImprovingTrend, report.Trend.Direction)
	assert.NotEmpty(t, report.Milestones)
	require.Len(t, report.Correlations, 1)
	assert.NotEmpty(t, report.Insights)
	assert.Contains(t, report.Insights[0], "improving")
}
