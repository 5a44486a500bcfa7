// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/evotrack/schema"
)

// BundleStore defines the operations the analysis layer needs from a
// timeline bundle. This allows commands and the MCP server to be tested
// against an in-memory store.
type BundleStore interface {
	// AddSnapshot inserts a snapshot into the bundle. It reports false when
	// a snapshot with the same timestamp identity already exists, in which
	// case the bundle is left untouched.
	AddSnapshot(s schema.Snapshot) (bool, error)

	// AddChangeEvent appends a change event to the bundle timeline.
	AddChangeEvent(ev schema.ChangeEvent) error

	// AddScoreEntry appends an entry to the bundle score history.
	AddScoreEntry(e schema.ScoreEntry) error

	// LoadTimeline returns the current timeline. A bundle without a
	// timeline yields an empty one, not an error.
	LoadTimeline() (schema.Timeline, error)

	// LoadScoreHistory returns the current score history. A bundle without
	// one yields an empty history, not an error.
	LoadScoreHistory() (schema.ScoreHistory, error)

	// Fingerprint returns a stable digest of the bundle contents, suitable
	// for cache keys. It changes whenever the manifest version changes.
	Fingerprint() (string, error)

	// Path returns the bundle directory.
	Path() string
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetReportStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for report cache storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(kind string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalEntities int) error

	// ListRuns returns the most recent analysis runs, newest first
	ListRuns(limit int) ([]schema.AnalysisRunRecord, error)

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// Close closes the underlying connection
	Close() error
}
