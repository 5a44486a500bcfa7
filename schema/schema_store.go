package schema

import "time"

// Manifest is the bundle-level document that owns the denormalized copies of
// the timeline and the score history. The store reads it, mutates the
// embedded copies, and writes it back whole on every successful add.
type Manifest struct {
	// Version increases monotonically on every manifest write.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EvolutionTimeline *Timeline     `json:"evolution_timeline,omitempty"`
	ErossHistory      *ScoreHistory `json:"eross_history,omitempty"`
}

// AnalysisRunRecord represents a row from the evotrack_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID      int64
	Kind            string
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	TotalEntities   int32
	ConfigParams    *string
}

// CacheStatus holds status information about the report cache store.
type CacheStatus struct {
	Backend         DatabaseBackend
	Connected       bool
	TotalEntries    int64
	LastEntryTime   time.Time
	OldestEntryTime time.Time
	TableSizeBytes  int64
}

// AnalysisStatus holds status information about the analysis-run store.
type AnalysisStatus struct {
	Backend       DatabaseBackend
	Connected     bool
	TotalRuns     int64
	LastRunID     int64
	LastRunTime   time.Time
	OldestRunTime time.Time
	TotalEntities int64
	TableSizes    map[string]int64
}
