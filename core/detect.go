// Package core has the analytic components: change detection, transformation
// classification, snapshot comparison, score-history analysis and the
// composite scoring engine. Everything here is pure and synchronous.
package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/evotrack/schema"
)

// Detection thresholds and confidences.
const (
	heightDeltaThreshold = 5.0 // same unit as stored claims

	heightChangeConfidence    = 0.9
	cosmeticChangeConfidence  = 0.8
	lifestyleChangeConfidence = 0.7
	contentChangeConfidence   = 0.6

	// Changes below this confidence are dropped before returning.
	minChangeConfidence = 0.3
)

// facialRegionTags maps cosmetic-procedure keywords to the closed evidence
// tags the transformation classifier checks. Matching is on lowercase
// substrings of the recorded procedure text.
var facialRegionTags = map[string]schema.EvidenceTag{
	"rhinoplasty": schema.TagNose,
	"nose":        schema.TagNose,
	"lip":         schema.TagMouth,
	"mouth":       schema.TagMouth,
	"facelift":    schema.TagFacial,
	"facial":      schema.TagFacial,
	"botox":       schema.TagFacial,
}

// DetectChanges compares two snapshots and returns the filtered list of
// detected changes. It is total: missing claims or metadata on either side
// silently skip the corresponding check.
func DetectChanges(before, after schema.Snapshot) []schema.DetectedChange {
	var changes []schema.DetectedChange

	if c, ok := detectHeightChange(before, after); ok {
		changes = append(changes, c)
	}
	if c, ok := detectCosmeticChange(before, after); ok {
		changes = append(changes, c)
	}
	if c, ok := detectLifestyleChange(before, after); ok {
		changes = append(changes, c)
	}
	if c, ok := detectContentChange(before, after); ok {
		changes = append(changes, c)
	}

	filtered := changes[:0]
	for _, c := range changes {
		if c.Confidence >= minChangeConfidence {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// detectHeightChange diffs the numeric height claims of both snapshots.
func detectHeightChange(before, after schema.Snapshot) (schema.DetectedChange, bool) {
	oldClaim, ok := before.Claim("height")
	if !ok {
		return schema.DetectedChange{}, false
	}
	newClaim, ok := after.Claim("height")
	if !ok {
		return schema.DetectedChange{}, false
	}

	oldH, err := strconv.ParseFloat(oldClaim.Value, 64)
	if err != nil {
		return schema.DetectedChange{}, false
	}
	newH, err := strconv.ParseFloat(newClaim.Value, 64)
	if err != nil {
		return schema.DetectedChange{}, false
	}

	delta := newH - oldH
	if delta < 0 {
		delta = -delta
	}
	if delta <= heightDeltaThreshold {
		return schema.DetectedChange{}, false
	}

	evidence := fmt.Sprintf("height changed from %s to %s", oldClaim.Value, newClaim.Value)
	return schema.DetectedChange{
		Type:         schema.PhysicalAppearanceChange,
		Description:  "Significant height change",
		Confidence:   heightChangeConfidence,
		Significance: heightChangeConfidence,
		Evidence:     []string{evidence},
		Tags:         []schema.EvidenceTag{schema.TagHeight},
	}, true
}

// detectCosmeticChange diffs the cosmetic_procedures metadata text.
func detectCosmeticChange(before, after schema.Snapshot) (schema.DetectedChange, bool) {
	oldProc := before.Metadata[string(schema.CosmeticProcedureSignal)]
	newProc := after.Metadata[string(schema.CosmeticProcedureSignal)]
	if oldProc == newProc {
		return schema.DetectedChange{}, false
	}

	tags := []schema.EvidenceTag{schema.TagCosmetic}
	tags = append(tags, regionTagsForProcedures(oldProc, newProc)...)

	evidence := fmt.Sprintf("cosmetic procedures changed from %q to %q", oldProc, newProc)
	return schema.DetectedChange{
		Type:         schema.PhysicalAppearanceChange,
		Description:  "Cosmetic procedure record changed",
		Confidence:   cosmeticChangeConfidence,
		Significance: cosmeticChangeConfidence,
		Evidence:     []string{evidence},
		Tags:         tags,
	}, true
}

// regionTagsForProcedures extracts facial-region tags from procedure text.
func regionTagsForProcedures(texts ...string) []schema.EvidenceTag {
	seen := make(map[schema.EvidenceTag]struct{})
	var tags []schema.EvidenceTag
	for _, text := range texts {
		lower := strings.ToLower(text)
		for keyword, tag := range facialRegionTags {
			if !strings.Contains(lower, keyword) {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// detectLifestyleChange compares the multiset of relationship claims.
func detectLifestyleChange(before, after schema.Snapshot) (schema.DetectedChange, bool) {
	oldRel := before.ClaimValues("relationship")
	newRel := after.ClaimValues("relationship")
	if multisetEqual(oldRel, newRel) {
		return schema.DetectedChange{}, false
	}

	evidence := fmt.Sprintf("relationship claims changed from %v to %v", oldRel, newRel)
	return schema.DetectedChange{
		Type:         schema.LifestyleChange,
		Description:  "Relationship status changed",
		Confidence:   lifestyleChangeConfidence,
		Significance: lifestyleChangeConfidence,
		Evidence:     []string{evidence},
	}, true
}

// detectContentChange compares media asset counts.
func detectContentChange(before, after schema.Snapshot) (schema.DetectedChange, bool) {
	if len(before.MediaRefs) == len(after.MediaRefs) {
		return schema.DetectedChange{}, false
	}

	evidence := fmt.Sprintf("asset count changed from %d to %d", len(before.MediaRefs), len(after.MediaRefs))
	return schema.DetectedChange{
		Type:         schema.OtherChange,
		Description:  "Media catalog changed",
		Confidence:   contentChangeConfidence,
		Significance: contentChangeConfidence,
		Evidence:     []string{evidence},
		Tags:         []schema.EvidenceTag{schema.TagContent},
	}, true
}

// multisetEqual compares two string slices as multisets.
func multisetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := make([]string, len(a))
	copy(as, a)
	bs := make([]string, len(b))
	copy(bs, b)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
