package core

import (
	"testing"
	"time"

	"github.com/huangsam/evotrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timelineOf(snapshots ...schema.Snapshot) schema.Timeline {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tl := schema.NewTimeline(base)
	for _, s := range snapshots {
		tl.InsertSnapshot(s, base)
	}
	return tl
}

func metaSnap(day int, meta map[string]string) schema.Snapshot {
	s := snapAt(day)
	s.Metadata = meta
	return s
}

// TestGradualFitnessPattern: three snapshots with rising muscle_definition
// values yield exactly one gradual fitness transformation at 0.75 confidence.
func TestGradualFitnessPattern(t *testing.T) {
	tl := timelineOf(
		metaSnap(0, map[string]string{"muscle_definition": "0.4"}),
		metaSnap(60, map[string]string{"muscle_definition": "0.5"}),
		metaSnap(120, map[string]string{"muscle_definition": "0.65"}),
	)

	transformations := DetectTransformations(tl)
	require.Len(t, transformations, 1)
	got := transformations[0]
	assert.Equal(t, schema.FitnessTransformation, got.Type)
	assert.Equal(t, 0.75, got.Confidence)
	assert.Equal(t, tl.Snapshots[0].Timestamp, got.StartTime)
	assert.Equal(t, tl.Snapshots[2].Timestamp, got.EndTime)
	assert.Equal(t, schema.SnapshotID(got.StartTime), got.StartSnapshotID)
}

func TestGradualFitnessRequirements(t *testing.T) {
	// Only two points: not enough.
	tl := timelineOf(
		metaSnap(0, map[string]string{"muscle_definition": "0.4"}),
		metaSnap(60, map[string]string{"muscle_definition": "0.9"}),
	)
	assert.Empty(t, DetectTransformations(tl))

	// Three points but the rise is exactly at the 0.2 threshold: not enough.
	tl = timelineOf(
		metaSnap(0, map[string]string{"muscle_definition": "0.4"}),
		metaSnap(60, map[string]string{"muscle_definition": "0.5"}),
		metaSnap(120, map[string]string{"muscle_definition": "0.6"}),
	)
	assert.Empty(t, DetectTransformations(tl))
}

func TestGradualAgingPattern(t *testing.T) {
	// Decline of 0.15 over 14 months qualifies.
	tl := timelineOf(
		metaSnap(0, map[string]string{"skin_quality": "0.80"}),
		metaSnap(430, map[string]string{"skin_quality": "0.65"}),
	)
	transformations := DetectTransformations(tl)
	require.Len(t, transformations, 1)
	assert.Equal(t, schema.AgingTransformation, transformations[0].Type)
	assert.Equal(t, 0.65, transformations[0].Confidence)

	// Same decline inside a year does not qualify.
	tl = timelineOf(
		metaSnap(0, map[string]string{"skin_quality": "0.80"}),
		metaSnap(300, map[string]string{"skin_quality": "0.65"}),
	)
	assert.Empty(t, DetectTransformations(tl))

	// A decline of exactly 0.1 does not qualify.
	tl = timelineOf(
		metaSnap(0, map[string]string{"skin_quality": "0.80"}),
		metaSnap(430, map[string]string{"skin_quality": "0.70"}),
	)
	assert.Empty(t, DetectTransformations(tl))
}

func TestGradualCosmeticPattern(t *testing.T) {
	tl := timelineOf(
		metaSnap(0, map[string]string{"cosmetic_procedures": "none"}),
		metaSnap(200, map[string]string{"cosmetic_procedures": "botox"}),
	)

	transformations := DetectTransformations(tl)
	// The metadata diff also fires the adjacent-pair pass (cosmetic change at
	// 0.8 confidence), so both a pair-level and a gradual cosmetic
	// transformation are reported.
	require.Len(t, transformations, 2)
	for _, tr := range transformations {
		assert.Equal(t, schema.CosmeticTransformation, tr.Type)
	}

	// A single repeated value is not a gradual pattern, but the timeline has
	// no diffs either.
	tl = timelineOf(
		metaSnap(0, map[string]string{"cosmetic_procedures": "botox"}),
		metaSnap(200, map[string]string{"cosmetic_procedures": "botox"}),
	)
	assert.Empty(t, DetectTransformations(tl))
}

func TestAdjacentPassFitnessClassification(t *testing.T) {
	// A qualifying height change (0.9 > 0.7, physical) with no facial or
	// cosmetic evidence classifies as fitness.
	tl := timelineOf(
		withHeight(snapAt(0), "165.0"),
		withHeight(snapAt(90), "171.0"),
	)

	transformations := DetectTransformations(tl)
	require.Len(t, transformations, 1)
	got := transformations[0]
	assert.Equal(t, schema.FitnessTransformation, got.Type)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)
	assert.NotEmpty(t, got.Evidence)
}

// TestClassifySurgicalUsesFirstQualifyingChange pins the ordering dependency
// of the surgical branch: the gate reads the confidence of the first
// qualifying change, not the maximum. A rewrite to "max" flips the second
// case below.
func TestClassifySurgicalUsesFirstQualifyingChange(t *testing.T) {
	facial := schema.DetectedChange{
		Type:       schema.PhysicalAppearanceChange,
		Confidence: 0.80,
		Tags:       []schema.EvidenceTag{schema.TagCosmetic, schema.TagFacial},
	}
	strong := schema.DetectedChange{
		Type:       schema.PhysicalAppearanceChange,
		Confidence: 0.95,
		Tags:       []schema.EvidenceTag{schema.TagHeight},
	}

	// First qualifying change is strong: surgical.
	assert.Equal(t, schema.SurgicalTransformation,
		classifyAdjacentChanges([]schema.DetectedChange{strong, facial}))

	// Same changes, weaker one first: the facial evidence still exists and
	// the max confidence is still 0.95, but classification falls through to
	// cosmetic because the FIRST change gates the surgical branch.
	assert.Equal(t, schema.CosmeticTransformation,
		classifyAdjacentChanges([]schema.DetectedChange{facial, strong}))
}

func TestClassifyFallthrough(t *testing.T) {
	unknown := schema.DetectedChange{Type: schema.HealthChange, Confidence: 0.85}
	assert.Equal(t, schema.UnknownTransformation,
		classifyAdjacentChanges([]schema.DetectedChange{unknown}))
}

func TestTransformationsOrderedByStart(t *testing.T) {
	tl := timelineOf(
		metaSnap(0, map[string]string{"muscle_definition": "0.4"}),
		metaSnap(100, map[string]string{"muscle_definition": "0.5", "skin_quality": "0.9"}),
		metaSnap(200, map[string]string{"muscle_definition": "0.7"}),
		metaSnap(500, map[string]string{"skin_quality": "0.7"}),
	)

	transformations := DetectTransformations(tl)
	require.NotEmpty(t, transformations)
	for i := 1; i < len(transformations); i++ {
		assert.False(t, transformations[i].StartTime.Before(transformations[i-1].StartTime))
	}
}
