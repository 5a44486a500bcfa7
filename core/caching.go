package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"
)

// currentReportCacheVersion defines the version of the cached report schema.
const currentReportCacheVersion = 1

// reportCacheMaxAge bounds how long a cached report stays usable.
const reportCacheMaxAge = 7 * 24 * time.Hour

// CachedEvolutionReport generates the evolution report for the configured
// time window, consulting the report cache first. The cache key covers the
// bundle fingerprint, so any write to the bundle invalidates prior entries.
func CachedEvolutionReport(cfg *contract.Config, store contract.BundleStore, mgr contract.CacheManager, now time.Time) (schema.EvolutionReport, error) {
	timeline, err := loadWindowedTimeline(cfg, store)
	if err != nil {
		return schema.EvolutionReport{}, err
	}

	var reports contract.CacheStore
	if mgr != nil {
		reports = mgr.GetReportStore()
	}
	if reports == nil {
		// Fallback to direct computation
		return GenerateEvolutionReport(timeline, now), nil
	}

	key, err := generateReportCacheKey(cfg, store)
	if err != nil {
		// A bundle that cannot be fingerprinted can still be reported on.
		return GenerateEvolutionReport(timeline, now), nil
	}

	if report := checkReportCacheHit(reports, key); report != nil {
		return *report, nil
	}

	report := GenerateEvolutionReport(timeline, now)
	if data, err := json.Marshal(report); err == nil {
		_ = reports.Set(key, data, currentReportCacheVersion, now.Unix())
	}
	return report, nil
}

// loadWindowedTimeline loads the bundle timeline and narrows it to the
// configured [StartTime, EndTime] window.
func loadWindowedTimeline(cfg *contract.Config, store contract.BundleStore) (schema.Timeline, error) {
	full, err := store.LoadTimeline()
	if err != nil {
		return schema.Timeline{}, fmt.Errorf("failed to load timeline: %w", err)
	}

	windowed := full
	windowed.Snapshots = full.SnapshotsBetween(cfg.StartTime, cfg.EndTime)
	windowed.ChangeEvents = full.ChangeEventsBetween(cfg.StartTime, cfg.EndTime)
	return windowed, nil
}

// checkReportCacheHit attempts to retrieve and validate a cached report.
func checkReportCacheHit(reports contract.CacheStore, key string) *schema.EvolutionReport {
	data, version, ts, err := reports.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentReportCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= reportCacheMaxAge {
			var report schema.EvolutionReport
			if err := json.Unmarshal(data, &report); err == nil {
				return &report // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// generateReportCacheKey creates a unique key for the report request. The
// bundle fingerprint changes with every manifest write, which invalidates
// cached reports as soon as the underlying data moves.
func generateReportCacheKey(cfg *contract.Config, store contract.BundleStore) (string, error) {
	fingerprint, err := store.Fingerprint()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s:%s:%d:%d:%d",
		store.Path(),
		fingerprint,
		cfg.StartTime.Truncate(time.Hour).Unix(),
		cfg.EndTime.Truncate(time.Hour).Unix(),
		currentReportCacheVersion,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key))), nil
}
