package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liamfpower/venvprune/internal/config"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show the directories that will be scanned",
	Long:  "Print the effective scan roots (builtin locations plus config/env additions) and whether each exists.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.DefaultPath())
		if err != nil {
			return err
		}

		for _, r := range config.ResolveRoots(nil, cfg) {
			marker := " "
			if r.Exists {
				marker = "*"
			}
			fmt.Printf("  %s %-60s (%s)\n", marker, r.Path, r.Source)
		}
		fmt.Println()
		fmt.Println("  * = exists and will be scanned")
		if p := config.DefaultPath(); p != "" {
			fmt.Printf("  config file: %s\n", p)
		}
		return nil
	},
}
