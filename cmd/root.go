package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	debug  bool
	dryRun bool

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "vp",
	Short: "Find and delete Python virtual environments",
	Long: `venvprune - Find and delete Python virtual environments.

Scans the well-known locations where venv, virtualenv, pipx, poetry,
conda, and pyenv create environments, shows how much disk each one
occupies, and lets you pick which to delete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation runs the interactive cleaner.
		return runClean(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")

	// Register all subcommands
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(sizeCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)

	// The bare invocation shares clean's flags.
	rootCmd.Flags().AddFlagSet(cleanCmd.Flags())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("venvprune %s (%s) built %s\n", appVersion, appCommit, appDate)
	},
}
