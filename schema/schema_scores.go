package schema

import "time"

// ScoreTrendAnalysis summarizes where a score history is heading.
type ScoreTrendAnalysis struct {
	Direction TrendDirection `json:"direction"`
	Magnitude float64        `json:"magnitude"` // relative delta between last two entries

	// Prediction is the least-squares projection of the next entry,
	// clamped to [0,1]. Nil when fewer than three entries exist.
	Prediction *float64 `json:"prediction,omitempty"`

	Confidence float64 `json:"confidence"` // 1 - stdev/mean, clamped to [0,1]
}

// PeriodComparison compares average scores across two date ranges.
type PeriodComparison struct {
	AverageA      float64      `json:"average_a"`
	AverageB      float64      `json:"average_b"`
	CountA        int          `json:"count_a"`
	CountB        int          `json:"count_b"`
	PercentChange float64      `json:"percent_change"`
	Significance  Significance `json:"significance"`
}

// ScoreMilestone marks a notable point in a score history.
type ScoreMilestone struct {
	Type        MilestoneType `json:"type"`
	Timestamp   time.Time     `json:"timestamp"`
	Score       float64       `json:"score"`
	Description string        `json:"description"`
}

// ScoreEventCorrelation relates a change event to the score entries within
// 30 days on either side of it.
type ScoreEventCorrelation struct {
	EventID     string              `json:"event_id"`
	EventType   ChangeType          `json:"event_type"`
	EventTime   time.Time           `json:"event_time"`
	AvgBefore   float64             `json:"avg_before"`
	AvgAfter    float64             `json:"avg_after"`
	Delta       float64             `json:"delta"` // avgAfter - avgBefore
	Strength    CorrelationStrength `json:"strength"`
	SampleCount int                 `json:"sample_count"`
}

// ScoreHistoryReport composes trend, milestone and correlation analysis with
// free-text insights for human-readable output.
type ScoreHistoryReport struct {
	Trend        ScoreTrendAnalysis      `json:"trend"`
	Milestones   []ScoreMilestone        `json:"milestones"`
	Correlations []ScoreEventCorrelation `json:"correlations"`
	Insights     []string                `json:"insights,omitempty"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// ComponentScore is one computed component of a composite score.
type ComponentScore struct {
	Key        ComponentKey `json:"key"`
	Score      float64      `json:"score"`      // 0..1
	Confidence float64      `json:"confidence"` // 0..1
	Weighted   float64      `json:"weighted"`   // Score * configured weight
}

// CompositeScore is the confidence-annotated weighted combination of all
// components that had input data. Weights of absent components are not
// redistributed, so partial inputs bias the overall score low.
type CompositeScore struct {
	OverallScore float64                        `json:"overall_score"` // 0..1 (displayed x100)
	Components   map[ComponentKey]ComponentScore `json:"components"`
	Confidence   float64                        `json:"confidence"` // mean over computed components
	ComputedAt   time.Time                      `json:"computed_at"`
}

// ScoreAnomaly is a score entry deviating more than two standard deviations
// from the history mean.
type ScoreAnomaly struct {
	Index     int         `json:"index"`
	Timestamp time.Time   `json:"timestamp"`
	Score     float64     `json:"score"`
	Kind      AnomalyKind `json:"kind"`
	Deviation float64     `json:"deviation"` // |score - mean| in stdev units
}

// ScorePrediction is one projected future score.
type ScorePrediction struct {
	Timestamp  time.Time `json:"timestamp"`
	Score      float64   `json:"score"`
	Confidence float64   `json:"confidence"`
}

// TrendAnalysisResult is the companion regression/moving-average/anomaly
// analysis over a score history.
type TrendAnalysisResult struct {
	Slope         float64           `json:"slope"`
	Intercept     float64           `json:"intercept"`
	MovingAverage []float64         `json:"moving_average,omitempty"`
	Anomalies     []ScoreAnomaly    `json:"anomalies,omitempty"`
	Predictions   []ScorePrediction `json:"predictions,omitempty"`
}

// VisionFeatures is the precomputed per-snapshot vision bundle consumed by
// the composite scoring engine. Every sub-score is already normalized to
// [0,1]; nil pointers and empty maps mean the sub-feature is absent.
type VisionFeatures struct {
	FacialRatios    map[string]float64 `json:"facial_ratios,omitempty"`
	BodyRatios      map[string]float64 `json:"body_ratios,omitempty"`
	Symmetry        *float64           `json:"symmetry,omitempty"`
	SkinAnalysis    *float64           `json:"skin_analysis,omitempty"`
	EyeAnalysis     *float64           `json:"eye_analysis,omitempty"`
	NoseAnalysis    *float64           `json:"nose_analysis,omitempty"`
	MouthAnalysis   *float64           `json:"mouth_analysis,omitempty"`
	FacialStructure *float64           `json:"facial_structure,omitempty"`
	Features        map[string]float64 `json:"features,omitempty"`
}

// SocialPost is one post in the social-engagement boundary record.
type SocialPost struct {
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
}

// SocialData is the optional social-engagement boundary record.
type SocialData struct {
	FollowerCount int          `json:"follower_count"`
	Posts         []SocialPost `json:"posts,omitempty"`
}

// ContentQuality is the optional content-quality boundary record.
// All fields are pre-normalized to [0,1] by the upstream pipeline.
type ContentQuality struct {
	Resolution       float64 `json:"resolution"`
	CompositionScore float64 `json:"composition_score"`
	LightingScore    float64 `json:"lighting_score"`
	FocusScore       float64 `json:"focus_score"`
}
