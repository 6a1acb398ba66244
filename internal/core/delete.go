package core

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/liamfpower/venvprune/internal/venv"
)

// SafeDelete removes an environment directory tree and returns the
// number of bytes freed. Before touching anything it verifies that the
// path is not a protected location and that it still looks like a
// Python environment — the tree may have changed between scan and
// delete. In dryRun mode the size is measured but nothing is removed.
func SafeDelete(path string, dryRun bool) (int64, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	abs = filepath.Clean(abs)

	if isProtected(abs) {
		return 0, fmt.Errorf("refusing to delete protected path %s", abs)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", abs)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return 0, err
	}
	if !venv.IsEnvironment(entries) {
		return 0, fmt.Errorf("%s is no longer a Python environment, not deleting", abs)
	}

	freed := venv.Measure(abs)

	if dryRun {
		return freed, nil
	}
	if err := os.RemoveAll(abs); err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", abs, err)
	}
	return freed, nil
}

// isProtected reports whether abs is a path that must never be deleted:
// the filesystem or volume root, the home directory, or any ancestor of
// home.
func isProtected(abs string) bool {
	var protected []string

	if home, err := os.UserHomeDir(); err == nil {
		home = filepath.Clean(home)
		for p := home; ; p = filepath.Dir(p) {
			protected = append(protected, p)
			if p == filepath.Dir(p) {
				break
			}
		}
	}
	protected = append(protected, string(filepath.Separator))
	if vol := filepath.VolumeName(abs); vol != "" {
		protected = append(protected, vol+string(filepath.Separator))
	}

	for _, p := range protected {
		if samePath(abs, p) {
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
