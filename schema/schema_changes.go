package schema

import "time"

// DetectedChange is the output of the change detector comparing two
// snapshots. It is derived, never persisted, and always recomputed.
type DetectedChange struct {
	Type         ChangeType    `json:"type"`
	Description  string        `json:"description"`
	Confidence   float64       `json:"confidence"`   // 0..1
	Significance float64       `json:"significance"` // 0..1
	Evidence     []string      `json:"evidence,omitempty"`
	Tags         []EvidenceTag `json:"tags,omitempty"`
}

// HasTag reports whether the change carries the given evidence tag.
func (c DetectedChange) HasTag(tag EvidenceTag) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the change carries at least one of the tags.
func (c DetectedChange) HasAnyTag(tags ...EvidenceTag) bool {
	for _, t := range tags {
		if c.HasTag(t) {
			return true
		}
	}
	return false
}

// DetectedTransformation is a classified, possibly multi-snapshot pattern of
// detected changes (e.g. a gradual fitness arc). Derived, never persisted.
type DetectedTransformation struct {
	Type        TransformationType `json:"type"`
	Description string             `json:"description"`
	Confidence  float64            `json:"confidence"` // 0..1
	StartTime   time.Time          `json:"start_time"`
	EndTime     time.Time          `json:"end_time"`
	Evidence    []string           `json:"evidence,omitempty"`

	// StartSnapshotID/EndSnapshotID reference the bounding snapshots.
	StartSnapshotID string `json:"start_snapshot_id"`
	EndSnapshotID   string `json:"end_snapshot_id"`
}
