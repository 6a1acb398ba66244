package prune

import (
	"fmt"
	"io"
	"strings"

	"github.com/liamfpower/venvprune/internal/core"
	"github.com/liamfpower/venvprune/internal/diskinfo"
	"github.com/liamfpower/venvprune/internal/venv"
)

// PrintReport writes a plain-text report of scan results. Used when
// stdout is not a terminal and the interactive bubbletea UI cannot
// render, and by the non-interactive list command.
func PrintReport(w io.Writer, candidates []venv.Candidate, rootErrs []venv.RootError, volumes []diskinfo.Volume) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "  No virtual environments found.")
	} else {
		fmt.Fprintf(w, "  %-10s  %-8s  %-10s  %s\n", "SIZE", "KIND", "PYTHON", "PATH")
		fmt.Fprintln(w, "  "+strings.Repeat("-", 58))

		var total int64
		for _, c := range candidates {
			version := c.PythonVersion
			if version == "" {
				version = "?"
			}
			fmt.Fprintf(w, "  %-10s  %-8s  %-10s  %s\n",
				core.FormatSize(c.Size), c.Kind, version, c.Path)
			total += c.Size
		}

		fmt.Fprintln(w, "  "+strings.Repeat("-", 58))
		fmt.Fprintf(w, "  Total: %s in %d environment(s)\n", core.FormatSize(total), len(candidates))
	}

	for _, v := range volumes {
		fmt.Fprintf(w, "  %s free of %s on %s\n",
			core.FormatSize(int64(v.Free)), core.FormatSize(int64(v.Total)), v.Mount)
	}

	for _, re := range rootErrs {
		fmt.Fprintf(w, "  warning: %s\n", re.Error())
	}
}
