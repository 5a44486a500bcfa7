package cmd

import (
	"errors"
	"time"

	"github.com/huangsam/evotrack/core"
	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/internal/outwriter"
	"github.com/huangsam/evotrack/schema"
	"github.com/spf13/cobra"
)

// compositeCmd computes a composite score from boundary inputs.
var compositeCmd = &cobra.Command{
	Use:   "composite [bundle-path]",
	Short: "Compute a weighted composite score from boundary inputs",
	Long: `Compute the composite score from up to three boundary records plus the
bundle's historical scores.

Inputs are JSON files: --vision (facial/body ratios, symmetry, skin),
--social (follower count and posts) and --content (resolution,
composition, lighting, focus). Each is optional; absent components simply
contribute nothing, their weights are never redistributed. The consistency
component comes from the bundle's score history, uniqueness is always
computed.

Weights default to the fixed configuration and can be overridden per
component in .evotrack.yaml under "weights"; the override set must still
sum to 1.0.

Examples:
  # Vision only
  evotrack composite ./subject --vision vision.json

  # All three boundary inputs
  evotrack composite ./subject --vision vision.json --social social.json --content content.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runComposite(); err != nil {
			contract.LogFatal("Cannot compute composite score", err)
		}
	},
}

func runComposite() error {
	engine, err := core.NewScoringEngine(cfg.ComponentWeights)
	if err != nil {
		return err
	}

	var vision *schema.VisionFeatures
	if cfg.VisionPath != "" {
		vision = &schema.VisionFeatures{}
		if err := readJSONFile(cfg.VisionPath, vision); err != nil {
			return err
		}
	}

	var social *schema.SocialData
	if cfg.SocialPath != "" {
		social = &schema.SocialData{}
		if err := readJSONFile(cfg.SocialPath, social); err != nil {
			return err
		}
	}

	var content *schema.ContentQuality
	if cfg.ContentPath != "" {
		content = &schema.ContentQuality{}
		if err := readJSONFile(cfg.ContentPath, content); err != nil {
			return err
		}
	}

	if vision == nil && social == nil && content == nil {
		return errors.New("at least one of --vision, --social, --content is required")
	}

	start := time.Now()
	analysisID := beginAnalysisRun("composite", start)

	history, err := loadScoreHistory(openBundleStore())
	if err != nil {
		return err
	}

	score := engine.CalculateCompositeScore(vision, social, content, displayScores(history), start)

	endAnalysisRun(analysisID, len(score.Components))
	return outwriter.NewOutWriter().WriteComposite(score, cfg, time.Since(start))
}
