package cmd

import (
	"errors"
	"time"

	"github.com/huangsam/evotrack/core"
	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/internal/outwriter"
	"github.com/spf13/cobra"
)

// periodsCmd compares score averages across two periods.
var periodsCmd = &cobra.Command{
	Use:   "periods [bundle-path]",
	Short: "Compare score averages across two time periods",
	Long: `Compare the average score of period A against period B.

All four boundaries are required and each period must be well-ordered.
The percent change is bucketed into minimal (<1%), moderate (<5%),
significant (<10%) and major.

Examples:
  # First half of 2024 vs second half
  evotrack periods ./subject \
    --a-start 2024-01-01 --a-end 2024-06-30 \
    --b-start 2024-07-01 --b-end 2024-12-31`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runPeriods(); err != nil {
			contract.LogFatal("Cannot compare score periods", err)
		}
	},
}

func runPeriods() error {
	if cfg.PeriodAStart.IsZero() || cfg.PeriodBStart.IsZero() {
		return errors.New("period comparison requires --a-start, --a-end, --b-start and --b-end")
	}

	start := time.Now()
	analysisID := beginAnalysisRun("periods", start)

	history, err := loadScoreHistory(openBundleStore())
	if err != nil {
		return err
	}

	comparison := core.CompareScorePeriods(history,
		cfg.PeriodAStart, cfg.PeriodAEnd, cfg.PeriodBStart, cfg.PeriodBEnd)

	endAnalysisRun(analysisID, comparison.CountA+comparison.CountB)
	return outwriter.NewOutWriter().WritePeriods(comparison, cfg, time.Since(start))
}
