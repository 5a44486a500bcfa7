package core

import (
	"testing"
	"time"

	"github.com/huangsam/evotrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestNewScoringEngineValidation(t *testing.T) {
	tests := []struct {
		name    string
		weights map[schema.ComponentKey]float64
		wantErr string
	}{
		{"nil selects defaults", nil, ""},
		{"explicit defaults", schema.GetDefaultComponentWeights(), ""},
		{
			"sum below tolerance",
			map[schema.ComponentKey]float64{
				schema.FacialBeautyComponent: 0.5,
				schema.UniquenessComponent:   0.4,
			},
			"sum to 0.900",
		},
		{
			"unknown component",
			map[schema.ComponentKey]float64{
				schema.ComponentKey("charisma"): 1.0,
			},
			"unknown composite component",
		},
		{
			"negative weight",
			map[schema.ComponentKey]float64{
				schema.FacialBeautyComponent: 1.2,
				schema.UniquenessComponent:   -0.2,
			},
			"negative weight",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewScoringEngine(tt.weights)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, engine)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestCompositeNoRenormalization: with only vision facial data present, the
// overall score carries just the facial and uniqueness weights. Missing
// components bias the composite low instead of being redistributed.
func TestCompositeNoRenormalization(t *testing.T) {
	engine, err := NewScoringEngine(nil)
	require.NoError(t, err)

	vision := &schema.VisionFeatures{EyeAnalysis: ptr(0.8), NoseAnalysis: ptr(0.6)}
	score := engine.CalculateCompositeScore(vision, nil, nil, nil, time.Now())

	require.Len(t, score.Components, 2)
	facial := score.Components[schema.FacialBeautyComponent]
	assert.InDelta(t, 0.7, facial.Score, 1e-9)
	assert.InDelta(t, 0.7, facial.Confidence, 1e-9) // base 0.5 + two sub-features
	assert.InDelta(t, 0.7*0.25, facial.Weighted, 1e-9)

	uniq := score.Components[schema.UniquenessComponent]
	assert.InDelta(t, 0.5, uniq.Score, 1e-9)

	assert.InDelta(t, 0.7*0.25+0.5*0.02, score.OverallScore, 1e-9)
	assert.InDelta(t, (0.7+0.5)/2, score.Confidence, 1e-9)
}

func TestCompositeNoInputs(t *testing.T) {
	engine, err := NewScoringEngine(nil)
	require.NoError(t, err)

	score := engine.CalculateCompositeScore(nil, nil, nil, nil, time.Now())
	require.Len(t, score.Components, 1)
	uniq := score.Components[schema.UniquenessComponent]
	assert.InDelta(t, 0.5, uniq.Score, 1e-9)
	assert.InDelta(t, 0.5, uniq.Confidence, 1e-9)
	assert.InDelta(t, 0.5*0.02, score.OverallScore, 1e-9)
}

func TestCompositeAllComponents(t *testing.T) {
	engine, err := NewScoringEngine(nil)
	require.NoError(t, err)

	vision := &schema.VisionFeatures{
		FacialRatios: map[string]float64{"golden": 0.8},
		BodyRatios:   map[string]float64{"shoulder_waist": 0.7},
		Symmetry:     ptr(0.9),
		SkinAnalysis: ptr(0.6),
	}
	social := &schema.SocialData{
		FollowerCount: 1000,
		Posts: []schema.SocialPost{
			{Likes: 40, Comments: 10},
			{Likes: 60, Comments: 15},
		},
	}
	content := &schema.ContentQuality{
		Resolution:       0.9,
		CompositionScore: 0.7,
		LightingScore:    0.8,
		FocusScore:       0.6,
	}
	historical := []float64{70, 74, 72}

	score := engine.CalculateCompositeScore(vision, social, content, historical, time.Now())
	require.Len(t, score.Components, 8)

	assert.InDelta(t, 0.8, score.Components[schema.FacialBeautyComponent].Score, 1e-9)
	assert.InDelta(t, 0.7, score.Components[schema.BodyProportionComponent].Score, 1e-9)
	assert.InDelta(t, 0.6, score.Components[schema.SkinQualityComponent].Score, 1e-9)
	assert.InDelta(t, 0.9, score.Components[schema.SymmetryComponent].Score, 1e-9)
	assert.InDelta(t, 0.75, score.Components[schema.ContentQualityComponent].Score, 1e-9)

	// Mean engagement rate (0.05+0.075)/2 scaled by 10.
	assert.InDelta(t, 0.625, score.Components[schema.SocialEngagementComponent].Score, 1e-9)

	consistency := score.Components[schema.ConsistencyComponent]
	assert.Greater(t, consistency.Score, 0.9)
	assert.Greater(t, consistency.Confidence, 0.9)

	// Four vision sub-features give facial confidence 0.9.
	assert.InDelta(t, 0.9, score.Components[schema.FacialBeautyComponent].Confidence, 1e-9)

	assert.Greater(t, score.OverallScore, 0.0)
	assert.LessOrEqual(t, score.OverallScore, 1.0)
}

func TestVisionConfidenceCap(t *testing.T) {
	vision := &schema.VisionFeatures{
		FacialRatios:    map[string]float64{"a": 0.5},
		BodyRatios:      map[string]float64{"b": 0.5},
		Features:        map[string]float64{"x": 0.5},
		Symmetry:        ptr(0.5),
		SkinAnalysis:    ptr(0.5),
		EyeAnalysis:     ptr(0.5),
		NoseAnalysis:    ptr(0.5),
		MouthAnalysis:   ptr(0.5),
		FacialStructure: ptr(0.5),
	}
	assert.InDelta(t, 0.95, visionConfidence(vision), 1e-9)
}

func TestConsistencyRequiresHistory(t *testing.T) {
	engine, err := NewScoringEngine(nil)
	require.NoError(t, err)

	score := engine.CalculateCompositeScore(nil, nil, nil, []float64{70}, time.Now())
	_, ok := score.Components[schema.ConsistencyComponent]
	assert.False(t, ok, "a single historical score is not a consistency signal")
}

func TestUniquenessBonuses(t *testing.T) {
	tests := []struct {
		name     string
		vision   *schema.VisionFeatures
		social   *schema.SocialData
		expected float64
	}{
		{"no inputs", nil, nil, 0.5},
		{
			"atypical facial ratio",
			&schema.VisionFeatures{FacialRatios: map[string]float64{"golden": 0.75}},
			nil,
			0.6,
		},
		{
			"typical ratios earn nothing",
			&schema.VisionFeatures{
				FacialRatios: map[string]float64{"golden": 0.5},
				BodyRatios:   map[string]float64{"shoulder_waist": 0.45},
			},
			nil,
			0.5,
		},
		{
			"small catalog",
			nil,
			&schema.SocialData{FollowerCount: 10, Posts: make([]schema.SocialPost, 3)},
			0.6,
		},
		{
			"large catalog earns nothing",
			nil,
			&schema.SocialData{FollowerCount: 10, Posts: make([]schema.SocialPost, 10)},
			0.5,
		},
		{
			"all three bonuses",
			&schema.VisionFeatures{
				FacialRatios: map[string]float64{"golden": 0.9},
				BodyRatios:   map[string]float64{"shoulder_waist": 0.2},
			},
			&schema.SocialData{FollowerCount: 10, Posts: make([]schema.SocialPost, 5)},
			0.8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := uniquenessScore(tt.vision, tt.social)
			assert.InDelta(t, tt.expected, score, 1e-9)
		})
	}
}

func TestEngagementScoreEdges(t *testing.T) {
	assert.Zero(t, engagementScore(&schema.SocialData{FollowerCount: 0, Posts: make([]schema.SocialPost, 2)}))
	assert.Zero(t, engagementScore(&schema.SocialData{FollowerCount: 100}))

	// Very high engagement clamps at 1.
	viral := &schema.SocialData{
		FollowerCount: 10,
		Posts:         []schema.SocialPost{{Likes: 100, Comments: 50}},
	}
	assert.InDelta(t, 1.0, engagementScore(viral), 1e-9)
}
