// Package schema has configs, models and shared constants for all parts of evotrack.
package schema

import (
	"sort"
	"strings"
	"time"
)

// Claim represents a single externally asserted property of the subject,
// e.g. {Property: "height", Value: "172.5"} or {Property: "relationship", Value: "married"}.
type Claim struct {
	Property string `json:"property"` // Property name, e.g. "height", "weight", "relationship"
	Value    string `json:"value"`    // Raw value as recorded by the upstream source
}

// Snapshot represents the subject's full recorded state at one instant.
// Snapshots are immutable once stored. The Metadata bag is an open
// string-keyed channel that upstream scanners use to stash derived scalar
// signals (e.g. "muscle_definition": "0.62"); see Signal for the typed view.
type Snapshot struct {
	Timestamp time.Time         `json:"timestamp"`
	State     string            `json:"state,omitempty"`      // Free-text summary of the subject's state
	MediaRefs []string          `json:"media_refs,omitempty"` // Opaque references to associated media assets
	Claims    []Claim           `json:"claims,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Claim returns the first claim with the given property, if any.
func (s Snapshot) Claim(property string) (Claim, bool) {
	for _, c := range s.Claims {
		if c.Property == property {
			return c, true
		}
	}
	return Claim{}, false
}

// ClaimValues returns all claim values for the given property, in order.
func (s Snapshot) ClaimValues(property string) []string {
	var values []string
	for _, c := range s.Claims {
		if c.Property == property {
			values = append(values, c.Value)
		}
	}
	return values
}

// SnapshotID derives the stable on-disk identifier for a snapshot timestamp:
// UTC ISO-8601 with fractional seconds, with colons escaped for portability
// across filesystems.
func SnapshotID(ts time.Time) string {
	iso := ts.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.ReplaceAll(iso, ":", "_")
}

// ChangeEvent is an externally asserted (not detected) notable change with
// its own confidence. It is recorded independently of any snapshot pair.
type ChangeEvent struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Type        ChangeType        `json:"type"`
	Description string            `json:"description"`
	Confidence  float64           `json:"confidence"` // 0..1
	SourceURLs  []string          `json:"source_urls,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Timeline is the append-only, versioned record of a subject: time-sorted
// snapshots plus time-sorted change events. Both lists stay sorted after
// every insert and LastUpdated is refreshed on every insert. The in-memory
// model does not deduplicate snapshots; that is the store's job.
type Timeline struct {
	Snapshots    []Snapshot    `json:"snapshots"`
	ChangeEvents []ChangeEvent `json:"change_events"`
	CreatedAt    time.Time     `json:"created_at"`
	LastUpdated  time.Time     `json:"last_updated"`
}

// NewTimeline returns an empty timeline stamped with the given creation time.
func NewTimeline(now time.Time) Timeline {
	return Timeline{CreatedAt: now, LastUpdated: now}
}

// InsertSnapshot inserts a snapshot in timestamp order and refreshes LastUpdated.
func (t *Timeline) InsertSnapshot(s Snapshot, now time.Time) {
	idx := sort.Search(len(t.Snapshots), func(i int) bool {
		return t.Snapshots[i].Timestamp.After(s.Timestamp)
	})
	t.Snapshots = append(t.Snapshots, Snapshot{})
	copy(t.Snapshots[idx+1:], t.Snapshots[idx:])
	t.Snapshots[idx] = s
	t.LastUpdated = now
}

// InsertChangeEvent inserts a change event in timestamp order and refreshes LastUpdated.
func (t *Timeline) InsertChangeEvent(ev ChangeEvent, now time.Time) {
	idx := sort.Search(len(t.ChangeEvents), func(i int) bool {
		return t.ChangeEvents[i].Timestamp.After(ev.Timestamp)
	})
	t.ChangeEvents = append(t.ChangeEvents, ChangeEvent{})
	copy(t.ChangeEvents[idx+1:], t.ChangeEvents[idx:])
	t.ChangeEvents[idx] = ev
	t.LastUpdated = now
}

// SnapshotsBetween returns the snapshots whose timestamps fall inside
// [start, end], inclusive on both ends.
func (t Timeline) SnapshotsBetween(start, end time.Time) []Snapshot {
	var out []Snapshot
	for _, s := range t.Snapshots {
		if !s.Timestamp.Before(start) && !s.Timestamp.After(end) {
			out = append(out, s)
		}
	}
	return out
}

// ChangeEventsBetween returns the change events whose timestamps fall inside
// [start, end], inclusive on both ends.
func (t Timeline) ChangeEventsBetween(start, end time.Time) []ChangeEvent {
	var out []ChangeEvent
	for _, ev := range t.ChangeEvents {
		if !ev.Timestamp.Before(start) && !ev.Timestamp.After(end) {
			out = append(out, ev)
		}
	}
	return out
}

// ChangeEventsOfType returns the change events with the given type.
func (t Timeline) ChangeEventsOfType(ct ChangeType) []ChangeEvent {
	var out []ChangeEvent
	for _, ev := range t.ChangeEvents {
		if ev.Type == ct {
			out = append(out, ev)
		}
	}
	return out
}

// LatestSnapshot returns the snapshot with the greatest timestamp.
// The second return is false for an empty timeline.
func (t Timeline) LatestSnapshot() (Snapshot, bool) {
	if len(t.Snapshots) == 0 {
		return Snapshot{}, false
	}
	return t.Snapshots[len(t.Snapshots)-1], true
}

// ScoreEntry is one observation of the subject's composite score.
type ScoreEntry struct {
	Timestamp  time.Time          `json:"timestamp"`
	Score      float64            `json:"score"` // 0..1
	Components map[string]float64 `json:"components,omitempty"`
	Confidence float64            `json:"confidence"` // 0..1
	Source     string             `json:"source"`
}

// ScoreHistory is a time-sorted list of score entries. Construction always
// re-sorts, so a history built from any input order is safe to scan linearly.
type ScoreHistory struct {
	Entries []ScoreEntry `json:"entries"`
}

// NewScoreHistory builds a score history from entries in any order.
func NewScoreHistory(entries []ScoreEntry) ScoreHistory {
	sorted := make([]ScoreEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return ScoreHistory{Entries: sorted}
}

// Insert adds an entry in timestamp order.
func (h *ScoreHistory) Insert(e ScoreEntry) {
	idx := sort.Search(len(h.Entries), func(i int) bool {
		return h.Entries[i].Timestamp.After(e.Timestamp)
	})
	h.Entries = append(h.Entries, ScoreEntry{})
	copy(h.Entries[idx+1:], h.Entries[idx:])
	h.Entries[idx] = e
}

// EntriesBetween returns the entries whose timestamps fall inside
// [start, end], inclusive on both ends.
func (h ScoreHistory) EntriesBetween(start, end time.Time) []ScoreEntry {
	var out []ScoreEntry
	for _, e := range h.Entries {
		if !e.Timestamp.Before(start) && !e.Timestamp.After(end) {
			out = append(out, e)
		}
	}
	return out
}

// Scores returns the raw score values in chronological order.
func (h ScoreHistory) Scores() []float64 {
	out := make([]float64, len(h.Entries))
	for i, e := range h.Entries {
		out[i] = e.Score
	}
	return out
}
