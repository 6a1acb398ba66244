package venv

import (
	"io/fs"
	"strings"
)

// configMarker is the marker file written by venv/virtualenv at the
// environment root.
const configMarker = "pyvenv.cfg"

// condaMetaDir is the metadata directory present in conda-family
// environments, which carry no pyvenv.cfg.
const condaMetaDir = "conda-meta"

// interpreterDirs hold the python executable: bin on POSIX layouts,
// Scripts on Windows layouts.
var interpreterDirs = []string{"bin", "Scripts"}

// packageDirs hold installed packages (site-packages lives underneath).
var packageDirs = []string{"lib", "lib64", "Lib"}

// IsEnvironment reports whether a directory with the given immediate
// children is a Python environment. The check is purely structural —
// the directory's own name is never consulted:
//
//   - pyvenv.cfg + an interpreter dir + a packages dir, or
//   - conda-meta/ + an interpreter dir (conda layouts have no pyvenv.cfg).
func IsEnvironment(entries []fs.DirEntry) bool {
	_, ok := Classify(entries)
	return ok
}

// Classify returns the environment kind for a directory listing, and
// whether the listing matches an environment at all.
func Classify(entries []fs.DirEntry) (Kind, bool) {
	var cfg, condaMeta, interp, pkgs bool

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			switch {
			case strings.EqualFold(name, condaMetaDir):
				condaMeta = true
			case matchName(name, interpreterDirs):
				interp = true
			case matchName(name, packageDirs):
				pkgs = true
			}
			continue
		}
		if strings.EqualFold(name, configMarker) {
			cfg = true
		}
	}

	switch {
	case cfg && interp && pkgs:
		return KindVenv, true
	case condaMeta && interp:
		return KindConda, true
	}
	return "", false
}

// matchName compares case-insensitively so Windows layouts (Scripts,
// Lib) match on case-insensitive filesystems regardless of on-disk case.
func matchName(name string, candidates []string) bool {
	for _, c := range candidates {
		if strings.EqualFold(name, c) {
			return true
		}
	}
	return false
}
