package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/liamfpower/venvprune/internal/diskinfo"
	"github.com/liamfpower/venvprune/internal/prune"
	"github.com/liamfpower/venvprune/internal/venv"
)

var (
	listJSON bool
	listSort string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List virtual environments without deleting",
	Long:  "Scan for Python virtual environments and print them with their disk usage.",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output results as JSON")
	listCmd.Flags().StringVar(&listSort, "sort", "size", "Sort order: size or path")
	listCmd.Flags().StringSliceVar(&cleanPaths, "path", nil, "Scan roots (overrides the builtin search locations)")
	listCmd.Flags().IntVar(&cleanDepth, "depth", 0, "Maximum directory depth to descend (0 = unlimited)")
	listCmd.Flags().StringVar(&cleanMinSize, "min-size", "", "Minimum environment size to show (e.g., 100MB)")
}

func runList(cmd *cobra.Command, args []string) error {
	if listSort != "size" && listSort != "path" {
		return fmt.Errorf("invalid --sort %q: want size or path", listSort)
	}

	opts, _, err := buildOptions()
	if err != nil {
		return err
	}

	scanner := venv.NewScanner(opts.Concurrency, opts.MaxDepth, opts.Exclude)
	result, rootErrs := scanner.Scan(context.Background(), opts.Roots)
	candidates := prune.Prepare(result.Candidates, opts.MinSize)
	if listSort == "path" {
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].Path < candidates[j].Path
		})
	}

	printDebug(scanner)

	if listJSON {
		return printListJSON(candidates, rootErrs)
	}

	prune.PrintReport(os.Stdout, candidates, rootErrs, diskinfo.ForPaths(opts.Roots))
	return nil
}

func printListJSON(candidates []venv.Candidate, rootErrs []venv.RootError) error {
	var errStrs []string
	for _, re := range rootErrs {
		errStrs = append(errStrs, re.Error())
	}

	var total int64
	for _, c := range candidates {
		total += c.Size
	}

	out := struct {
		Candidates []venv.Candidate `json:"candidates"`
		TotalSize  int64            `json:"total_size"`
		RootErrors []string         `json:"root_errors,omitempty"`
	}{candidates, total, errStrs}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
