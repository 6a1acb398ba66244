package venv

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the environment flavor.
type Kind string

const (
	// KindVenv is a venv/virtualenv environment (has pyvenv.cfg).
	KindVenv Kind = "venv"
	// KindConda is a conda-family environment (has conda-meta/).
	KindConda Kind = "conda"
)

// Candidate is one discovered environment. Immutable once constructed.
type Candidate struct {
	Path          string `json:"path"`
	Name          string `json:"name"`
	Kind          Kind   `json:"kind"`
	PythonVersion string `json:"python_version,omitempty"`
	Size          int64  `json:"size"`
}

// ScanResult is the ordered list of environments found by a scan.
type ScanResult struct {
	Candidates []Candidate `json:"candidates"`
}

// TotalSize returns the sum of all candidate sizes. Always recomputed
// so it cannot go stale when callers filter Candidates.
func (r *ScanResult) TotalSize() int64 {
	var total int64
	for _, c := range r.Candidates {
		total += c.Size
	}
	return total
}

// RootError reports a scan root that does not exist or is not a
// directory. Other roots are unaffected.
type RootError struct {
	Root string
	Err  error
}

func (e RootError) Error() string {
	return "root " + e.Root + ": " + e.Err.Error()
}

func (e RootError) Unwrap() error {
	return e.Err
}

// newCandidate builds a Candidate for a recognized environment root,
// measuring its size and probing the Python version.
func newCandidate(path string, kind Kind) Candidate {
	return Candidate{
		Path:          path,
		Name:          filepath.Base(path),
		Kind:          kind,
		PythonVersion: probePythonVersion(path),
		Size:          Measure(path),
	}
}

// probePythonVersion tries, in order of cost: the pyvenv.cfg version
// line, a lib/pythonX.Y directory name, and the conda-meta/history
// package log. Returns "" when all probes come up empty. The
// interpreter is never executed — the engine only reads the filesystem.
func probePythonVersion(root string) string {
	if v := versionFromPyvenvCfg(filepath.Join(root, configMarker)); v != "" {
		return v
	}
	if v := versionFromLibDir(filepath.Join(root, "lib")); v != "" {
		return v
	}
	return versionFromCondaHistory(filepath.Join(root, condaMetaDir, "history"))
}

func versionFromPyvenvCfg(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		// venv writes "version = 3.12.1"; virtualenv writes
		// "version_info = 3.12.1.final.0".
		for _, prefix := range []string{"version = ", "version_info = "} {
			if strings.HasPrefix(line, prefix) {
				return strings.TrimSpace(strings.TrimPrefix(line, prefix))
			}
		}
	}
	return ""
}

func versionFromLibDir(libDir string) string {
	entries, err := os.ReadDir(libDir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "python") && len(name) > len("python") {
			return strings.TrimPrefix(name, "python")
		}
	}
	return ""
}

func versionFromCondaHistory(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		idx := strings.Index(line, "python-")
		if idx < 0 {
			continue
		}
		rest := line[idx+len("python-"):]
		if fields := strings.Fields(rest); len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}
