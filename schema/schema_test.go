package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestTimelineInsertKeepsOrder verifies both lists stay time-sorted after
// out-of-order inserts and that LastUpdated is refreshed.
func TestTimelineInsertKeepsOrder(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tl := NewTimeline(base)

	times := []time.Time{
		base.AddDate(0, 0, 10),
		base.AddDate(0, 0, 2),
		base.AddDate(0, 0, 7),
		base.AddDate(0, 0, 2), // duplicate timestamp is kept by the model
	}
	for i, ts := range times {
		tl.InsertSnapshot(Snapshot{Timestamp: ts}, base.AddDate(0, 0, 20+i))
		tl.InsertChangeEvent(ChangeEvent{ID: SnapshotID(ts), Timestamp: ts}, base.AddDate(0, 0, 20+i))
	}

	assert.Len(t, tl.Snapshots, 4)
	for i := 1; i < len(tl.Snapshots); i++ {
		assert.False(t, tl.Snapshots[i].Timestamp.Before(tl.Snapshots[i-1].Timestamp))
	}
	for i := 1; i < len(tl.ChangeEvents); i++ {
		assert.False(t, tl.ChangeEvents[i].Timestamp.Before(tl.ChangeEvents[i-1].Timestamp))
	}
	assert.Equal(t, base.AddDate(0, 0, 23), tl.LastUpdated)
}

// TestSnapshotID pins the colon-escaped ISO-8601 identifier format.
func TestSnapshotID(t *testing.T) {
	ts := time.Date(2024, 6, 15, 13, 45, 30, 250_000_000, time.UTC)
	assert.Equal(t, "2024-06-15T13_45_30.250Z", SnapshotID(ts))

	// Non-UTC input normalizes to UTC before formatting.
	loc := time.FixedZone("UTC+2", 2*3600)
	local := time.Date(2024, 6, 15, 13, 45, 30, 250_000_000, loc)
	assert.Equal(t, "2024-06-15T11_45_30.250Z", SnapshotID(local))
}

func TestTimelineQueries(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tl := NewTimeline(base)
	for d := 0; d < 5; d++ {
		tl.InsertSnapshot(Snapshot{Timestamp: base.AddDate(0, 0, d)}, base)
	}
	tl.InsertChangeEvent(ChangeEvent{ID: "a", Timestamp: base.AddDate(0, 0, 1), Type: CareerChange}, base)
	tl.InsertChangeEvent(ChangeEvent{ID: "b", Timestamp: base.AddDate(0, 0, 3), Type: HealthChange}, base)

	assert.Len(t, tl.SnapshotsBetween(base.AddDate(0, 0, 1), base.AddDate(0, 0, 3)), 3)
	assert.Len(t, tl.ChangeEventsBetween(base, base.AddDate(0, 0, 2)), 1)
	assert.Len(t, tl.ChangeEventsOfType(HealthChange), 1)

	latest, ok := tl.LatestSnapshot()
	assert.True(t, ok)
	assert.Equal(t, base.AddDate(0, 0, 4), latest.Timestamp)

	empty := NewTimeline(base)
	_, ok = empty.LatestSnapshot()
	assert.False(t, ok)
}

// TestNewScoreHistorySorts verifies construction always re-sorts.
func TestNewScoreHistorySorts(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewScoreHistory([]ScoreEntry{
		{Timestamp: base.AddDate(0, 0, 9), Score: 0.9},
		{Timestamp: base, Score: 0.1},
		{Timestamp: base.AddDate(0, 0, 5), Score: 0.5},
	})
	assert.Equal(t, []float64{0.1, 0.5, 0.9}, h.Scores())

	h.Insert(ScoreEntry{Timestamp: base.AddDate(0, 0, 3), Score: 0.3})
	assert.Equal(t, []float64{0.1, 0.3, 0.5, 0.9}, h.Scores())
}

func TestSignalParsing(t *testing.T) {
	snap := Snapshot{
		Timestamp: time.Now(),
		Metadata: map[string]string{
			"muscle_definition":   "0.62",
			"skin_quality":        "not-a-number",
			"cosmetic_procedures": "rhinoplasty",
		},
	}

	sig, ok := snap.Signal(MuscleDefinitionSignal)
	assert.True(t, ok)
	assert.InDelta(t, 0.62, sig.Numeric, 1e-9)

	_, ok = snap.Signal(SkinQualitySignal)
	assert.False(t, ok, "malformed numeric value reads as missing")

	sig, ok = snap.Signal(CosmeticProcedureSignal)
	assert.True(t, ok)
	assert.Equal(t, "rhinoplasty", sig.Text)

	_, ok = snap.Signal(SignalKind("unknown_key"))
	assert.False(t, ok)
}

func TestCategoryForChangeType(t *testing.T) {
	tests := []struct {
		ct       ChangeType
		expected ChangeCategory
	}{
		{PhysicalAppearanceChange, PhysicalCategory},
		{HealthChange, PhysicalCategory},
		{CareerChange, LifestyleCategory},
		{LifestyleChange, LifestyleCategory},
		{OtherChange, ContentCategory},
		{RelationshipsChange, MetadataCategory},
		{ChangeType("bogus"), MetadataCategory},
	}
	for _, tt := range tests {
		t.Run(string(tt.ct), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategoryForChangeType(tt.ct))
		})
	}
}

func TestClaimLookups(t *testing.T) {
	snap := Snapshot{Claims: []Claim{
		{Property: "height", Value: "172.5"},
		{Property: "relationship", Value: "married"},
		{Property: "relationship", Value: "parent"},
	}}

	c, ok := snap.Claim("height")
	assert.True(t, ok)
	assert.Equal(t, "172.5", c.Value)

	_, ok = snap.Claim("weight")
	assert.False(t, ok)

	assert.Equal(t, []string{"married", "parent"}, snap.ClaimValues("relationship"))
}
