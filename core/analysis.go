package core

import (
	"math"

	"github.com/huangsam/evotrack/core/algo"
	"github.com/huangsam/evotrack/schema"
)

// Trend-analysis constraints.
const (
	anomalyStdevFactor = 2.0

	maxPredictionPeriods     = 3
	predictionPeriodDays     = 30
	predictionConfidenceBase = 1.0
	predictionConfidenceStep = 0.2
	predictionConfidenceMin  = 0.1
)

// AnalyzeScoreHistory runs the regression/moving-average/anomaly companion
// over a score history. The moving-average window is a parameter; a window
// that does not fit the history simply omits that part of the result.
// An empty history yields a zero-valued result.
func AnalyzeScoreHistory(history schema.ScoreHistory, window int) schema.TrendAnalysisResult {
	scores := history.Scores()
	if len(scores) == 0 {
		return schema.TrendAnalysisResult{}
	}

	slope, intercept := algo.LeastSquares(scores)
	result := schema.TrendAnalysisResult{
		Slope:         slope,
		Intercept:     intercept,
		MovingAverage: algo.MovingAverage(scores, window),
		Anomalies:     detectAnomalies(history, scores),
	}

	if len(scores) >= 2 {
		result.Predictions = predictFuturePeriods(history, slope, intercept)
	}
	return result
}

// detectAnomalies flags entries deviating more than two standard deviations
// from the history mean, classified as peak or valley.
func detectAnomalies(history schema.ScoreHistory, scores []float64) []schema.ScoreAnomaly {
	mean := algo.Mean(scores)
	stdev := algo.Stdev(scores)
	if stdev == 0 {
		return nil
	}

	var anomalies []schema.ScoreAnomaly
	for i, e := range history.Entries {
		dev := math.Abs(e.Score-mean) / stdev
		if math.Abs(e.Score-mean) <= anomalyStdevFactor*stdev {
			continue
		}
		kind := schema.PeakAnomaly
		if e.Score < mean {
			kind = schema.ValleyAnomaly
		}
		anomalies = append(anomalies, schema.ScoreAnomaly{
			Index:     i,
			Timestamp: e.Timestamp,
			Score:     e.Score,
			Kind:      kind,
			Deviation: dev,
		})
	}
	return anomalies
}

// predictFuturePeriods projects up to three future scores roughly 30 days
// apart, with confidence falling off per period ahead.
func predictFuturePeriods(history schema.ScoreHistory, slope, intercept float64) []schema.ScorePrediction {
	last := history.Entries[len(history.Entries)-1]
	n := len(history.Entries)

	predictions := make([]schema.ScorePrediction, 0, maxPredictionPeriods)
	for period := 1; period <= maxPredictionPeriods; period++ {
		idx := float64(n - 1 + period)
		conf := predictionConfidenceBase - predictionConfidenceStep*float64(period)
		if conf < predictionConfidenceMin {
			conf = predictionConfidenceMin
		}
		predictions = append(predictions, schema.ScorePrediction{
			Timestamp:  last.Timestamp.AddDate(0, 0, period*predictionPeriodDays),
			Score:      algo.Clamp01(slope*idx + intercept),
			Confidence: algo.Clamp01(conf),
		})
	}
	return predictions
}
