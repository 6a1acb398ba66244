package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/liamfpower/venvprune/internal/config"
	"github.com/liamfpower/venvprune/internal/core"
	"github.com/liamfpower/venvprune/internal/diskinfo"
	"github.com/liamfpower/venvprune/internal/prune"
	"github.com/liamfpower/venvprune/internal/venv"
)

var (
	cleanPaths   []string
	cleanDepth   int
	cleanMinSize string
	cleanYes     bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Scan and delete virtual environments",
	Long:  "Scan for Python virtual environments, select a subset interactively, and delete them to reclaim disk space.",
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview deletions without removing anything")
	cleanCmd.Flags().BoolVar(&cleanYes, "yes", false, "Delete everything found without prompting")
	cleanCmd.Flags().StringSliceVar(&cleanPaths, "path", nil, "Scan roots (overrides the builtin search locations)")
	cleanCmd.Flags().IntVar(&cleanDepth, "depth", 0, "Maximum directory depth to descend (0 = unlimited)")
	cleanCmd.Flags().StringVar(&cleanMinSize, "min-size", "", "Minimum environment size to show (e.g., 100MB)")
}

func runClean(cmd *cobra.Command, args []string) error {
	opts, cfg, err := buildOptions()
	if err != nil {
		return err
	}

	interactive := !cleanYes &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

	if interactive {
		p := tea.NewProgram(prune.NewModel(opts), tea.WithAltScreen())
		_, err := p.Run()
		return err
	}

	return runCleanPlain(opts, cfg)
}

// runCleanPlain handles --yes and non-TTY invocations without the TUI.
func runCleanPlain(opts prune.Options, cfg *config.Config) error {
	scanner := venv.NewScanner(opts.Concurrency, opts.MaxDepth, opts.Exclude)
	result, rootErrs := scanner.Scan(context.Background(), opts.Roots)
	candidates := prune.Prepare(result.Candidates, opts.MinSize)

	prune.PrintReport(os.Stdout, candidates, rootErrs, diskinfo.ForPaths(opts.Roots))
	printDebug(scanner)

	if !cleanYes {
		fmt.Println("  Not a terminal: nothing deleted. Re-run with --yes to delete everything listed.")
		return nil
	}

	var freed int64
	for _, c := range candidates {
		n, err := core.SafeDelete(c.Path, opts.DryRun)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  failed: %s: %v\n", c.Path, err)
			continue
		}
		freed += n
		fmt.Printf("  deleted %s  %s\n", c.Path, core.FormatSize(n))
	}

	verb := "Reclaimed"
	if opts.DryRun {
		verb = "Would reclaim"
	}
	fmt.Printf("  %s %s\n", verb, core.FormatSize(freed))
	return nil
}

// buildOptions merges flags, config file, and environment into the
// effective scan options.
func buildOptions() (prune.Options, *config.Config, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return prune.Options{}, nil, err
	}

	roots := config.ResolveRoots(cleanPaths, cfg)
	paths := config.ExistingPaths(roots)
	if len(paths) == 0 {
		return prune.Options{}, nil, fmt.Errorf("no scan roots exist; pass --path or configure paths")
	}

	minSize, err := core.ParseSize(cleanMinSize)
	if err != nil {
		return prune.Options{}, nil, err
	}

	depth := cleanDepth
	if depth == 0 {
		depth = cfg.MaxDepth
	}

	return prune.Options{
		Roots:       paths,
		Exclude:     cfg.Exclude,
		Concurrency: cfg.Concurrency,
		MaxDepth:    depth,
		MinSize:     minSize,
		DryRun:      dryRun,
	}, cfg, nil
}

// printDebug emits accumulated scanner warnings under --debug.
func printDebug(scanner *venv.Scanner) {
	if !debug {
		return
	}
	for _, w := range scanner.Warnings() {
		fmt.Fprintln(os.Stderr, "  debug:", w)
	}
	fmt.Fprintf(os.Stderr, "  debug: %d directories visited\n", scanner.ScannedCount())
}
