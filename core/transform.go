package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/evotrack/schema"
)

// Transformation detection constraints.
const (
	// Adjacent-pair changes must exceed this confidence to qualify.
	qualifyingChangeConfidence = 0.7

	// Surgical classification requires the first qualifying change to
	// exceed this confidence on top of facial evidence.
	surgicalConfidenceFloor = 0.9

	gradualFitnessMinPoints = 3
	gradualFitnessDelta     = 0.2
	gradualFitnessConf      = 0.75

	gradualAgingMinPoints = 2
	gradualAgingDrop      = 0.1
	gradualAgingConf      = 0.65

	gradualCosmeticMinPoints = 2
	gradualCosmeticConf      = 0.70
)

// DetectTransformations scans a whole timeline for classified transformation
// patterns: one adjacent-pair pass over consecutive snapshots plus three
// dedicated gradual scanners (fitness, aging, cosmetic). Results are ordered
// by the start of their time range.
func DetectTransformations(timeline schema.Timeline) []schema.DetectedTransformation {
	var out []schema.DetectedTransformation

	out = append(out, detectAdjacentTransformations(timeline.Snapshots)...)
	if t, ok := detectGradualFitness(timeline.Snapshots); ok {
		out = append(out, t)
	}
	if t, ok := detectGradualAging(timeline.Snapshots); ok {
		out = append(out, t)
	}
	if t, ok := detectGradualCosmetic(timeline.Snapshots); ok {
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// detectAdjacentTransformations runs the pairwise detector over consecutive
// snapshots and classifies each pair's qualifying changes.
func detectAdjacentTransformations(snapshots []schema.Snapshot) []schema.DetectedTransformation {
	var out []schema.DetectedTransformation
	for i := 1; i < len(snapshots); i++ {
		before, after := snapshots[i-1], snapshots[i]

		var qualifying []schema.DetectedChange
		for _, c := range DetectChanges(before, after) {
			if c.Confidence <= qualifyingChangeConfidence {
				continue
			}
			if c.Type != schema.PhysicalAppearanceChange && c.Type != schema.HealthChange {
				continue
			}
			qualifying = append(qualifying, c)
		}
		if len(qualifying) == 0 {
			continue
		}

		kind := classifyAdjacentChanges(qualifying)
		var confSum float64
		var evidence []string
		for _, c := range qualifying {
			confSum += c.Confidence
			evidence = append(evidence, c.Evidence...)
		}

		out = append(out, schema.DetectedTransformation{
			Type:            kind,
			Description:     transformationDescription(kind, evidence),
			Confidence:      confSum / float64(len(qualifying)),
			StartTime:       before.Timestamp,
			EndTime:         after.Timestamp,
			Evidence:        evidence,
			StartSnapshotID: schema.SnapshotID(before.Timestamp),
			EndSnapshotID:   schema.SnapshotID(after.Timestamp),
		})
	}
	return out
}

// classifyAdjacentChanges applies the decision table over a non-empty set of
// qualifying changes. The surgical branch reads the confidence of the FIRST
// qualifying change, not the maximum; see the companion test before touching
// this.
func classifyAdjacentChanges(qualifying []schema.DetectedChange) schema.TransformationType {
	hasFacial := false
	hasCosmetic := false
	hasBodyMetric := false
	for _, c := range qualifying {
		if c.HasAnyTag(schema.TagFacial, schema.TagNose, schema.TagMouth) {
			hasFacial = true
		}
		if c.HasTag(schema.TagCosmetic) {
			hasCosmetic = true
		}
		if c.HasAnyTag(schema.TagWeight, schema.TagHeight) {
			hasBodyMetric = true
		}
	}

	switch {
	case hasFacial && qualifying[0].Confidence > surgicalConfidenceFloor:
		return schema.SurgicalTransformation
	case hasCosmetic:
		return schema.CosmeticTransformation
	case hasBodyMetric:
		return schema.FitnessTransformation
	default:
		return schema.UnknownTransformation
	}
}

// transformationDescription builds the human-readable description from the
// type and the underlying evidence strings, concatenated verbatim.
func transformationDescription(kind schema.TransformationType, evidence []string) string {
	if len(evidence) == 0 {
		return fmt.Sprintf("%s transformation", kind)
	}
	return fmt.Sprintf("%s transformation: %s", kind, strings.Join(evidence, "; "))
}

// signalPoint is one (timestamp, signal) observation collected by a scanner.
type signalPoint struct {
	ts  time.Time
	sig schema.Signal
}

// collectSignalPoints walks the sorted snapshot list and returns every
// snapshot carrying the given signal.
func collectSignalPoints(snapshots []schema.Snapshot, kind schema.SignalKind) []signalPoint {
	var points []signalPoint
	for _, s := range snapshots {
		if sig, ok := s.Signal(kind); ok {
			points = append(points, signalPoint{ts: s.Timestamp, sig: sig})
		}
	}
	return points
}

// detectGradualFitness looks for a sustained muscle-definition rise.
func detectGradualFitness(snapshots []schema.Snapshot) (schema.DetectedTransformation, bool) {
	points := collectSignalPoints(snapshots, schema.MuscleDefinitionSignal)
	if len(points) < gradualFitnessMinPoints {
		return schema.DetectedTransformation{}, false
	}

	first, last := points[0], points[len(points)-1]
	if last.sig.Numeric-first.sig.Numeric <= gradualFitnessDelta {
		return schema.DetectedTransformation{}, false
	}

	evidence := []string{fmt.Sprintf(
		"muscle definition rose from %.2f to %.2f across %d snapshots",
		first.sig.Numeric, last.sig.Numeric, len(points),
	)}
	return schema.DetectedTransformation{
		Type:            schema.FitnessTransformation,
		Description:     transformationDescription(schema.FitnessTransformation, evidence),
		Confidence:      gradualFitnessConf,
		StartTime:       first.ts,
		EndTime:         last.ts,
		Evidence:        evidence,
		StartSnapshotID: schema.SnapshotID(first.ts),
		EndSnapshotID:   schema.SnapshotID(last.ts),
	}, true
}

// detectGradualAging looks for a skin-quality decline over at least a year.
func detectGradualAging(snapshots []schema.Snapshot) (schema.DetectedTransformation, bool) {
	points := collectSignalPoints(snapshots, schema.SkinQualitySignal)
	if len(points) < gradualAgingMinPoints {
		return schema.DetectedTransformation{}, false
	}

	first, last := points[0], points[len(points)-1]
	if last.ts.Before(first.ts.AddDate(1, 0, 0)) {
		return schema.DetectedTransformation{}, false
	}
	if first.sig.Numeric-last.sig.Numeric <= gradualAgingDrop {
		return schema.DetectedTransformation{}, false
	}

	evidence := []string{fmt.Sprintf(
		"skin quality declined from %.2f to %.2f over %.0f days",
		first.sig.Numeric, last.sig.Numeric, last.ts.Sub(first.ts).Hours()/24,
	)}
	return schema.DetectedTransformation{
		Type:            schema.AgingTransformation,
		Description:     transformationDescription(schema.AgingTransformation, evidence),
		Confidence:      gradualAgingConf,
		StartTime:       first.ts,
		EndTime:         last.ts,
		Evidence:        evidence,
		StartSnapshotID: schema.SnapshotID(first.ts),
		EndSnapshotID:   schema.SnapshotID(last.ts),
	}, true
}

// detectGradualCosmetic looks for more than one distinct cosmetic-procedure
// record across the timeline.
func detectGradualCosmetic(snapshots []schema.Snapshot) (schema.DetectedTransformation, bool) {
	points := collectSignalPoints(snapshots, schema.CosmeticProcedureSignal)
	if len(points) < gradualCosmeticMinPoints {
		return schema.DetectedTransformation{}, false
	}

	distinct := make(map[string]struct{})
	for _, p := range points {
		distinct[p.sig.Text] = struct{}{}
	}
	if len(distinct) <= 1 {
		return schema.DetectedTransformation{}, false
	}

	first, last := points[0], points[len(points)-1]
	evidence := []string{fmt.Sprintf(
		"%d distinct cosmetic procedure records across %d snapshots",
		len(distinct), len(points),
	)}
	return schema.DetectedTransformation{
		Type:            schema.CosmeticTransformation,
		Description:     transformationDescription(schema.CosmeticTransformation, evidence),
		Confidence:      gradualCosmeticConf,
		StartTime:       first.ts,
		EndTime:         last.ts,
		Evidence:        evidence,
		StartSnapshotID: schema.SnapshotID(first.ts),
		EndSnapshotID:   schema.SnapshotID(last.ts),
	}, true
}
