package schema

import "time"

// ComparisonResult holds the categorized outcome of comparing two snapshots.
type ComparisonResult struct {
	Before time.Time `json:"before"`
	After  time.Time `json:"after"`

	Changes    []DetectedChange       `json:"changes"`
	Categories map[ChangeCategory]int `json:"categories"`

	// OverallChangeMagnitude is min(1, (sum significance / max(1,N)) * N/10).
	OverallChangeMagnitude float64 `json:"overall_change_magnitude"`

	// ChangeVelocity is changes per day between the two snapshots.
	ChangeVelocity float64 `json:"change_velocity"`

	// Confidence reflects how much evidence both snapshots carried.
	Confidence float64 `json:"confidence"`
}

// EvolutionReport rolls a full timeline into a single summary.
type EvolutionReport struct {
	SnapshotCount         int          `json:"snapshot_count"`
	TotalChanges          int          `json:"total_changes"`
	SignificantChanges    int          `json:"significant_changes"` // significance > 0.7
	OverallMagnitude      float64      `json:"overall_magnitude"`   // mean of per-pair magnitudes
	AverageChangeVelocity float64      `json:"average_change_velocity"`
	Pattern               PatternLabel `json:"pattern"`
	KeyTransformations    []string     `json:"key_transformations,omitempty"`
	SpanDays              float64      `json:"span_days"`
	GeneratedAt           time.Time    `json:"generated_at"`
}
