package core

import (
	"fmt"
	"time"

	"github.com/huangsam/evotrack/core/algo"
	"github.com/huangsam/evotrack/schema"
)

// Score-history analysis constraints.
const (
	improvingFactor = 1.05
	decliningFactor = 0.95

	trendMinEntries      = 2
	predictionMinEntries = 3
	neutralConfidence    = 0.5

	milestoneJump         = 0.1
	consistencyFloor      = 0.8
	consistencyMinEntries = 3

	correlationWindow      = 30 * 24 * time.Hour
	strongCorrelationGap   = 0.1
	moderateCorrelationGap = 0.05

	// Period-comparison significance buckets, in percent.
	minimalChangeCeiling     = 1.0
	moderateChangeCeiling    = 5.0
	significantChangeCeiling = 10.0
)

// AnalyzeScoreTrends compares the last two entries chronologically and fits
// a least-squares prediction over the whole history. Fewer than two entries
// yield a stable trend with neutral confidence.
func AnalyzeScoreTrends(history schema.ScoreHistory) schema.ScoreTrendAnalysis {
	if len(history.Entries) < trendMinEntries {
		return schema.ScoreTrendAnalysis{
			Direction:  schema.StableTrend,
			Confidence: neutralConfidence,
		}
	}

	entries := history.Entries
	previous := entries[len(entries)-2].Score
	current := entries[len(entries)-1].Score

	direction := schema.StableTrend
	switch {
	case current > previous*improvingFactor:
		direction = schema.ImprovingTrend
	case current < previous*decliningFactor:
		direction = schema.DecliningTrend
	}

	var magnitude float64
	if previous != 0 {
		magnitude = current/previous - 1
		if magnitude < 0 {
			magnitude = -magnitude
		}
	}

	analysis := schema.ScoreTrendAnalysis{
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: trendConfidence(history.Scores()),
	}

	if len(entries) >= predictionMinEntries {
		scores := history.Scores()
		slope, intercept := algo.LeastSquares(scores)
		predicted := algo.Clamp01(slope*float64(len(scores)) + intercept)
		analysis.Prediction = &predicted
	}
	return analysis
}

// trendConfidence is 1 - stdev/mean clamped to [0,1]; a constant series
// yields full confidence.
func trendConfidence(scores []float64) float64 {
	mean := algo.Mean(scores)
	stdev := algo.Stdev(scores)
	if mean == 0 {
		if stdev == 0 {
			return 1
		}
		return 0
	}
	return algo.Clamp01(1 - stdev/mean)
}

// CompareScorePeriods averages the scores falling in each range and buckets
// the relative change. An empty period A reports zero percent change.
func CompareScorePeriods(history schema.ScoreHistory, aStart, aEnd, bStart, bEnd time.Time) schema.PeriodComparison {
	entriesA := history.EntriesBetween(aStart, aEnd)
	entriesB := history.EntriesBetween(bStart, bEnd)

	avgA := algo.Mean(entryScores(entriesA))
	avgB := algo.Mean(entryScores(entriesB))

	var pct float64
	if avgA != 0 {
		pct = (avgB - avgA) / avgA * 100
	}

	return schema.PeriodComparison{
		AverageA:      avgA,
		AverageB:      avgB,
		CountA:        len(entriesA),
		CountB:        len(entriesB),
		PercentChange: pct,
		Significance:  significanceForPercent(pct),
	}
}

// significanceForPercent buckets an absolute percent change.
func significanceForPercent(pct float64) schema.Significance {
	if pct < 0 {
		pct = -pct
	}
	switch {
	case pct < minimalChangeCeiling:
		return schema.MinimalSignificance
	case pct < moderateChangeCeiling:
		return schema.ModerateSignificance
	case pct < significantChangeCeiling:
		return schema.SignificantSignificance
	default:
		return schema.MajorSignificance
	}
}

func entryScores(entries []schema.ScoreEntry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Score
	}
	return out
}

// ScoreMilestones extracts the peak-score entry, every >0.1 jump between
// consecutive entries, and a single consistency milestone when at least
// three entries score 0.8 or higher.
func ScoreMilestones(history schema.ScoreHistory) []schema.ScoreMilestone {
	entries := history.Entries
	if len(entries) == 0 {
		return nil
	}

	var milestones []schema.ScoreMilestone

	peak := entries[0]
	for _, e := range entries[1:] {
		if e.Score > peak.Score {
			peak = e
		}
	}
	milestones = append(milestones, schema.ScoreMilestone{
		Type:        schema.PeakScoreMilestone,
		Timestamp:   peak.Timestamp,
		Score:       peak.Score,
		Description: fmt.Sprintf("Peak score %.2f", peak.Score),
	})

	for i := 1; i < len(entries); i++ {
		if entries[i].Score > entries[i-1].Score+milestoneJump {
			milestones = append(milestones, schema.ScoreMilestone{
				Type:      schema.ImprovementMilestone,
				Timestamp: entries[i].Timestamp,
				Score:     entries[i].Score,
				Description: fmt.Sprintf(
					"Score improved from %.2f to %.2f", entries[i-1].Score, entries[i].Score,
				),
			})
		}
	}

	var highScores []float64
	var lastHigh schema.ScoreEntry
	for _, e := range entries {
		if e.Score >= consistencyFloor {
			highScores = append(highScores, e.Score)
			lastHigh = e
		}
	}
	if len(highScores) >= consistencyMinEntries {
		milestones = append(milestones, schema.ScoreMilestone{
			Type:      schema.ConsistencyMilestone,
			Timestamp: lastHigh.Timestamp,
			Score:     algo.Mean(highScores),
			Description: fmt.Sprintf(
				"Consistently high: %d entries at or above %.2f", len(highScores), consistencyFloor,
			),
		})
	}
	return milestones
}

// AnalyzeScoreEventCorrelations relates every change event to the score
// entries within 30 days on either side. Events without at least two nearby
// entries, one strictly before and one strictly after, are skipped.
func AnalyzeScoreEventCorrelations(timeline schema.Timeline, history schema.ScoreHistory) []schema.ScoreEventCorrelation {
	var out []schema.ScoreEventCorrelation
	for _, ev := range timeline.ChangeEvents {
		nearby := history.EntriesBetween(ev.Timestamp.Add(-correlationWindow), ev.Timestamp.Add(correlationWindow))
		if len(nearby) < 2 {
			continue
		}

		var before, after []float64
		for _, e := range nearby {
			switch {
			case e.Timestamp.Before(ev.Timestamp):
				before = append(before, e.Score)
			case e.Timestamp.After(ev.Timestamp):
				after = append(after, e.Score)
			}
		}
		if len(before) == 0 || len(after) == 0 {
			continue
		}

		avgBefore := algo.Mean(before)
		avgAfter := algo.Mean(after)
		delta := avgAfter - avgBefore

		out = append(out, schema.ScoreEventCorrelation{
			EventID:     ev.ID,
			EventType:   ev.Type,
			EventTime:   ev.Timestamp,
			AvgBefore:   avgBefore,
			AvgAfter:    avgAfter,
			Delta:       delta,
			Strength:    correlationStrength(delta),
			SampleCount: len(nearby),
		})
	}
	return out
}

// correlationStrength buckets the absolute before/after average gap.
func correlationStrength(delta float64) schema.CorrelationStrength {
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta > strongCorrelationGap:
		return schema.StrongCorrelation
	case delta > moderateCorrelationGap:
		return schema.ModerateCorrelation
	default:
		return schema.WeakCorrelation
	}
}

// GenerateScoreHistoryReport composes trend, milestone and correlation
// analysis with free-text insights. The insights are presentation glue; the
// facts all come from the composed analyses.
func GenerateScoreHistoryReport(timeline schema.Timeline, history schema.ScoreHistory, now time.Time) schema.ScoreHistoryReport {
	report := schema.ScoreHistoryReport{
		Trend:        AnalyzeScoreTrends(history),
		Milestones:   ScoreMilestones(history),
		Correlations: AnalyzeScoreEventCorrelations(timeline, history),
		GeneratedAt:  now,
	}

	report.Insights = append(report.Insights, fmt.Sprintf(
		"Score trend is %s (magnitude %.1f%%, confidence %.2f)",
		report.Trend.Direction, report.Trend.Magnitude*100, report.Trend.Confidence,
	))
	for _, m := range report.Milestones {
		switch m.Type {
		case schema.PeakScoreMilestone:
			report.Insights = append(report.Insights, fmt.Sprintf(
				"Peak score %.2f reached on %s", m.Score, m.Timestamp.Format("2006-01-02"),
			))
		case schema.ConsistencyMilestone:
			report.Insights = append(report.Insights, m.Description)
		}
	}
	strong := 0
	for _, c := range report.Correlations {
		if c.Strength == schema.StrongCorrelation {
			strong++
		}
	}
	if strong > 0 {
		report.Insights = append(report.Insights, fmt.Sprintf(
			"%d change events strongly correlated with score shifts", strong,
		))
	}
	return report
}
