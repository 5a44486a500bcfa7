package core

import (
	"time"

	"github.com/huangsam/evotrack/core/algo"
	"github.com/huangsam/evotrack/schema"
)

// Comparison thresholds.
const (
	baseComparisonConfidence = 0.5
	evidenceConfidenceBonus  = 0.1

	significantChangeFloor = 0.7 // report-level "significant" cutoff
	majorChangeFloor       = 0.8 // per-pair "major" cutoff

	// Pattern label thresholds on average change velocity (changes/day).
	stableVelocityCeiling   = 0.1
	gradualVelocityCeiling  = 0.5
	moderateVelocityCeiling = 1.0

	// Key-transformation gates.
	lifestyleShiftMinChanges = 2
	rapidVelocityFloor       = 1.0
)

// CompareSnapshots wraps the change detector into a categorized, summarized
// comparison of two snapshots.
func CompareSnapshots(before, after schema.Snapshot) schema.ComparisonResult {
	changes := DetectChanges(before, after)

	categories := make(map[schema.ChangeCategory]int)
	var sigSum float64
	for _, c := range changes {
		categories[schema.CategoryForChangeType(c.Type)]++
		sigSum += c.Significance
	}

	n := len(changes)
	denom := n
	if denom < 1 {
		denom = 1
	}
	magnitude := (sigSum / float64(denom)) * float64(n) / 10.0
	if magnitude > 1 {
		magnitude = 1
	}

	days := after.Timestamp.Sub(before.Timestamp).Hours() / 24
	velocity := 0.0
	if days > 0 {
		velocity = float64(n) / days
	}

	return schema.ComparisonResult{
		Before:                 before.Timestamp,
		After:                  after.Timestamp,
		Changes:                changes,
		Categories:             categories,
		OverallChangeMagnitude: magnitude,
		ChangeVelocity:         velocity,
		Confidence:             comparisonConfidence(before, after, changes, days),
	}
}

// comparisonConfidence starts at 0.5 and moves with the amount of evidence
// both snapshots carry: +0.1 per non-empty claim/asset list, +0.1 when any
// change is major, -0.1 when the snapshots are less than a day apart.
func comparisonConfidence(before, after schema.Snapshot, changes []schema.DetectedChange, days float64) float64 {
	conf := baseComparisonConfidence
	if len(before.Claims) > 0 {
		conf += evidenceConfidenceBonus
	}
	if len(after.Claims) > 0 {
		conf += evidenceConfidenceBonus
	}
	if len(before.MediaRefs) > 0 {
		conf += evidenceConfidenceBonus
	}
	if len(after.MediaRefs) > 0 {
		conf += evidenceConfidenceBonus
	}
	for _, c := range changes {
		if c.Significance > majorChangeFloor {
			conf += evidenceConfidenceBonus
			break
		}
	}
	if days < 1 {
		conf -= evidenceConfidenceBonus
	}
	return algo.Clamp01(conf)
}

// GenerateEvolutionReport folds all consecutive snapshot comparisons into a
// single timeline-level summary. Fewer than two snapshots yield a stable,
// empty report.
func GenerateEvolutionReport(timeline schema.Timeline, now time.Time) schema.EvolutionReport {
	report := schema.EvolutionReport{
		SnapshotCount: len(timeline.Snapshots),
		Pattern:       schema.StablePattern,
		GeneratedAt:   now,
	}
	if len(timeline.Snapshots) < 2 {
		return report
	}

	var magnitudes []float64
	var totalChanges, significantChanges int
	var majorPhysical, rapidPeriod bool
	var lifestyleChanges int

	for i := 1; i < len(timeline.Snapshots); i++ {
		cmp := CompareSnapshots(timeline.Snapshots[i-1], timeline.Snapshots[i])
		magnitudes = append(magnitudes, cmp.OverallChangeMagnitude)
		totalChanges += len(cmp.Changes)
		lifestyleChanges += cmp.Categories[schema.LifestyleCategory]
		if cmp.ChangeVelocity > rapidVelocityFloor {
			rapidPeriod = true
		}
		for _, c := range cmp.Changes {
			if c.Significance > significantChangeFloor {
				significantChanges++
			}
			if schema.CategoryForChangeType(c.Type) == schema.PhysicalCategory && c.Significance > majorChangeFloor {
				majorPhysical = true
			}
		}
	}

	first := timeline.Snapshots[0].Timestamp
	last := timeline.Snapshots[len(timeline.Snapshots)-1].Timestamp
	spanDays := last.Sub(first).Hours() / 24

	var avgVelocity float64
	if spanDays > 0 {
		avgVelocity = float64(totalChanges) / spanDays
	}

	report.TotalChanges = totalChanges
	report.SignificantChanges = significantChanges
	report.OverallMagnitude = algo.Mean(magnitudes)
	report.AverageChangeVelocity = avgVelocity
	report.SpanDays = spanDays
	report.Pattern = patternForVelocity(avgVelocity)

	if majorPhysical {
		report.KeyTransformations = append(report.KeyTransformations, "major physical transformation")
	}
	if lifestyleChanges >= lifestyleShiftMinChanges {
		report.KeyTransformations = append(report.KeyTransformations, "lifestyle shift")
	}
	if rapidPeriod {
		report.KeyTransformations = append(report.KeyTransformations, "rapid change period")
	}
	return report
}

// patternForVelocity buckets an average change velocity into a pattern label.
func patternForVelocity(velocity float64) schema.PatternLabel {
	switch {
	case velocity < stableVelocityCeiling:
		return schema.StablePattern
	case velocity < gradualVelocityCeiling:
		return schema.GradualPattern
	case velocity < moderateVelocityCeiling:
		return schema.ModeratePattern
	default:
		return schema.ActivePattern
	}
}
