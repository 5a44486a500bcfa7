package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/internal/parquet"
	"github.com/spf13/cobra"
)

// exportCmd exports the bundle score history to Parquet.
var exportCmd = &cobra.Command{
	Use:   "export [bundle-path]",
	Short: "Export the bundle score history to Parquet",
	Long: `Export the bundle's score history to a Parquet file for analytics
tools such as DuckDB, pandas or Apache Spark.

Requires: --output-file parameter

For exporting recorded analysis runs instead, see 'evotrack analysis export'.

Examples:
  # Export all score entries
  evotrack export ./subject --output-file scores.parquet

  # Query with DuckDB
  duckdb -c "SELECT * FROM read_parquet('scores.parquet') LIMIT 10"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runExport(); err != nil {
			contract.LogFatal("Cannot export score history", err)
		}
	},
}

func runExport() error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	start := time.Now()
	analysisID := beginAnalysisRun("export", start)

	history, err := loadScoreHistory(openBundleStore())
	if err != nil {
		return err
	}
	if len(history.Entries) == 0 {
		return errors.New("no score entries found to export")
	}

	rows := parquet.ConvertScoreHistory(history)
	if err := parquet.WriteScoreHistoryParquet(rows, cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to write score history: %w", err)
	}
	fmt.Printf("Exported %d score entries to: %s\n", len(rows), cfg.OutputFile)

	endAnalysisRun(analysisID, len(rows))
	return nil
}
