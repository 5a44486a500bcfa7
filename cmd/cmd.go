// Package cmd defines the command-line interface for evotrack.
package cmd

import (
	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(changesCmd)
	rootCmd.AddCommand(transformationsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(scorereportCmd)
	rootCmd.AddCommand(periodsCmd)
	rootCmd.AddCommand(compositeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the snapshots subcommands to the parent snapshots command
	snapshotsCmd.AddCommand(snapshotsAddCmd)
	snapshotsCmd.AddCommand(snapshotsListCmd)

	// Add the events subcommands to the parent events command
	eventsCmd.AddCommand(eventsAddCmd)
	eventsCmd.AddCommand(eventsListCmd)

	// Add the scores subcommands to the parent scores command
	scoresCmd.AddCommand(scoresAddCmd)
	scoresCmd.AddCommand(scoresTrendsCmd)
	scoresCmd.AddCommand(scoresMilestonesCmd)
	scoresCmd.AddCommand(scoresCorrelationsCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("bundle", "b", "", "Bundle directory (used when the positional argument carries something else)")
	rootCmd.PersistentFlags().String("from", "", "Window start in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("to", "", "Window end in ISO8601 or time ago")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Report cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output messages (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of eventsListCmd to Viper
	eventsListCmd.Flags().StringP("type", "t", "", "Filter events by change type")
	if err := viper.BindPFlags(eventsListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding events list flags", err)
	}

	// Bind the shared scores flags to Viper
	scoresCmd.PersistentFlags().Int("window", contract.DefaultWindow, "Moving-average window for trend analysis")
	scoresCmd.PersistentFlags().String("source", "", "Only consider score entries from this source")
	if err := viper.BindPFlags(scoresCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding scores flags", err)
	}

	// Bind all flags of periodsCmd to Viper
	periodsCmd.Flags().String("a-start", "", "Start of period A in ISO8601 or time ago")
	periodsCmd.Flags().String("a-end", "", "End of period A in ISO8601 or time ago")
	periodsCmd.Flags().String("b-start", "", "Start of period B in ISO8601 or time ago")
	periodsCmd.Flags().String("b-end", "", "End of period B in ISO8601 or time ago")
	if err := viper.BindPFlags(periodsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding periods flags", err)
	}

	// Bind all flags of compositeCmd to Viper
	compositeCmd.Flags().String("vision", "", "Path to a vision-features JSON file")
	compositeCmd.Flags().String("social", "", "Path to a social-data JSON file")
	compositeCmd.Flags().String("content", "", "Path to a content-quality JSON file")
	if err := viper.BindPFlags(compositeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding composite flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
