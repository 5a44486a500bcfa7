package core

import (
	"fmt"
	"math"
	"time"

	"github.com/huangsam/evotrack/core/algo"
	"github.com/huangsam/evotrack/schema"
)

// Composite scoring constants.
const (
	weightSumTolerance = 0.001

	visionBaseConfidence    = 0.5
	visionFeatureConfidence = 0.1
	visionConfidenceCap     = 0.95

	bodyConfidence     = 0.85
	skinConfidence     = 0.80
	symmetryConfidence = 0.90
	contentConfidence  = 0.75
	socialConfidence   = 0.70

	uniquenessBase  = 0.5
	uniquenessBonus = 0.1

	// Ratios this far from the 0.5 midpoint count as "less typical" for
	// the uniqueness heuristic.
	typicalRatioLow  = 0.4
	typicalRatioHigh = 0.6

	smallCatalogCeiling = 10

	// Historical scores arrive on the displayed 0-100 scale.
	consistencyScoreDivisor      = 50.0
	consistencyConfidenceDivisor = 20.0

	engagementScale = 10.0
)

// ScoringEngine combines per-snapshot vision scores, externally supplied
// content/social metrics and historical consistency into one weighted,
// confidence-annotated composite score.
//
// Weights of absent components are NOT redistributed: a score computed from
// partial inputs is systematically biased low. That is deliberate, observable
// behavior; renormalizing here would silently change every stored score.
type ScoringEngine struct {
	weights map[schema.ComponentKey]float64
}

// NewScoringEngine validates the weight configuration and returns an engine.
// A nil weight map selects the defaults. The weights must cover known
// components only and sum to 1.0 within a 0.001 tolerance; a misconfigured
// set fails here, before any score is computed.
func NewScoringEngine(weights map[schema.ComponentKey]float64) (*ScoringEngine, error) {
	if weights == nil {
		weights = schema.GetDefaultComponentWeights()
	}

	defaults := schema.GetDefaultComponentWeights()
	var sum float64
	for key, w := range weights {
		if _, known := defaults[key]; !known {
			return nil, fmt.Errorf("unknown composite component %q", key)
		}
		if w < 0 {
			return nil, fmt.Errorf("negative weight %.3f for component %q", w, key)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return nil, fmt.Errorf("composite weights sum to %.3f, want 1.0 (±%.3f)", sum, weightSumTolerance)
	}

	return &ScoringEngine{weights: weights}, nil
}

// CalculateCompositeScore computes every component whose input is present
// and folds them into the weighted overall score. Uniqueness is always
// computed, even with no inputs at all. The overall confidence is the mean
// confidence of the components that were actually computed.
func (e *ScoringEngine) CalculateCompositeScore(
	vision *schema.VisionFeatures,
	social *schema.SocialData,
	content *schema.ContentQuality,
	historical []float64,
	now time.Time,
) schema.CompositeScore {
	components := make(map[schema.ComponentKey]schema.ComponentScore)

	add := func(key schema.ComponentKey, score, confidence float64) {
		components[key] = schema.ComponentScore{
			Key:        key,
			Score:      score,
			Confidence: confidence,
			Weighted:   score * e.weights[key],
		}
	}

	if vision != nil {
		if facial, ok := facialBeautyScore(vision); ok {
			add(schema.FacialBeautyComponent, facial, visionConfidence(vision))
		}
		if len(vision.BodyRatios) > 0 {
			add(schema.BodyProportionComponent, algo.Mean(mapValues(vision.BodyRatios)), bodyConfidence)
		}
		if vision.SkinAnalysis != nil {
			add(schema.SkinQualityComponent, *vision.SkinAnalysis, skinConfidence)
		}
		if vision.Symmetry != nil {
			add(schema.SymmetryComponent, *vision.Symmetry, symmetryConfidence)
		}
	}

	if content != nil {
		score := algo.Mean([]float64{
			content.Resolution,
			content.CompositionScore,
			content.LightingScore,
			content.FocusScore,
		})
		add(schema.ContentQualityComponent, score, contentConfidence)
	}

	if social != nil {
		add(schema.SocialEngagementComponent, engagementScore(social), socialConfidence)
	}

	if len(historical) >= 2 {
		stdev := algo.Stdev(historical)
		score := algo.Clamp01(1 - stdev/consistencyScoreDivisor)
		confidence := math.Max(0, 1-stdev/consistencyConfidenceDivisor)
		add(schema.ConsistencyComponent, score, confidence)
	}

	uniqScore, uniqConf := uniquenessScore(vision, social)
	add(schema.UniquenessComponent, uniqScore, uniqConf)

	var overall float64
	var confidences []float64
	for _, c := range components {
		overall += c.Weighted
		confidences = append(confidences, c.Confidence)
	}

	return schema.CompositeScore{
		OverallScore: algo.Clamp01(overall),
		Components:   components,
		Confidence:   algo.Mean(confidences),
		ComputedAt:   now,
	}
}

// facialBeautyScore averages the present facial sub-scores. Reports false
// when the vision bundle carries no facial information at all.
func facialBeautyScore(v *schema.VisionFeatures) (float64, bool) {
	var parts []float64
	for _, p := range []*float64{v.EyeAnalysis, v.NoseAnalysis, v.MouthAnalysis, v.FacialStructure} {
		if p != nil {
			parts = append(parts, *p)
		}
	}
	if len(v.FacialRatios) > 0 {
		parts = append(parts, algo.Mean(mapValues(v.FacialRatios)))
	}
	if len(parts) == 0 {
		return 0, false
	}
	return algo.Mean(parts), true
}

// visionConfidence derives the vision confidence: base 0.5 plus 0.1 per
// present sub-feature, capped at 0.95.
func visionConfidence(v *schema.VisionFeatures) float64 {
	count := 0
	if len(v.FacialRatios) > 0 {
		count++
	}
	if len(v.BodyRatios) > 0 {
		count++
	}
	if len(v.Features) > 0 {
		count++
	}
	for _, p := range []*float64{
		v.Symmetry, v.SkinAnalysis, v.EyeAnalysis, v.NoseAnalysis, v.MouthAnalysis, v.FacialStructure,
	} {
		if p != nil {
			count++
		}
	}
	return math.Min(visionBaseConfidence+float64(count)*visionFeatureConfidence, visionConfidenceCap)
}

// engagementScore normalizes average per-post engagement against follower
// count. No posts or no followers score zero.
func engagementScore(social *schema.SocialData) float64 {
	if social.FollowerCount <= 0 || len(social.Posts) == 0 {
		return 0
	}
	var rateSum float64
	for _, p := range social.Posts {
		rateSum += float64(p.Likes+p.Comments) / float64(social.FollowerCount)
	}
	return algo.Clamp01(rateSum / float64(len(social.Posts)) * engagementScale)
}

// uniquenessScore starts at 0.5 and grants small bonuses for less typical
// ratios and small content catalogs. It is always computed; with no inputs
// it stays at the 0.5 base.
func uniquenessScore(vision *schema.VisionFeatures, social *schema.SocialData) (score, confidence float64) {
	score = uniquenessBase
	confidence = uniquenessBase

	bump := func() {
		score = math.Min(score+uniquenessBonus, 1.0)
		confidence = math.Min(confidence+uniquenessBonus, 1.0)
	}

	if vision != nil && hasAtypicalRatio(vision.FacialRatios) {
		bump()
	}
	if vision != nil && hasAtypicalRatio(vision.BodyRatios) {
		bump()
	}
	if social != nil && len(social.Posts) > 0 && len(social.Posts) < smallCatalogCeiling {
		bump()
	}
	return score, confidence
}

// hasAtypicalRatio reports whether any ratio falls outside the typical band.
func hasAtypicalRatio(ratios map[string]float64) bool {
	for _, v := range ratios {
		if v < typicalRatioLow || v > typicalRatioHigh {
			return true
		}
	}
	return false
}

func mapValues(m map[string]float64) []float64 {
	out := make([]float64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
