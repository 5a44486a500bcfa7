package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the version, build commit, and build date of the evotrack CLI.

Examples:
  # Show version information
  evotrack version`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println("evotrack CLI")
		cmd.Printf("Version:  %s\n", version)
		cmd.Printf("Commit:   %s\n", commit)
		cmd.Printf("Built:    %s\n", date)
		cmd.Printf("Runtime:  %s\n", runtime.Version())
	},
}
