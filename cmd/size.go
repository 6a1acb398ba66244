package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liamfpower/venvprune/internal/core"
	"github.com/liamfpower/venvprune/internal/venv"
)

var sizeCmd = &cobra.Command{
	Use:   "size PATH",
	Short: "Measure the disk usage of one directory",
	Long:  "Recursively measure the bytes occupied by a directory tree, the same way scan sizes environments. Useful to re-check a single entry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", path)
		}

		size := venv.Measure(path)
		fmt.Printf("  %s  (%d bytes)  %s\n", core.FormatSize(size), size, path)
		return nil
	},
}
