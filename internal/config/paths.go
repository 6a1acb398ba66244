package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SearchRoot is one directory considered for scanning, with its
// provenance and whether it currently exists on disk.
type SearchRoot struct {
	Path   string
	Source string // "builtin", "config", "env", or "flag"
	Exists bool
}

// DefaultSearchRoots returns the well-known parent directories that
// Python tooling creates environments under, resolved against the
// current user's home. Paths are listed regardless of existence;
// existence is checked separately.
func DefaultSearchRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	roots := []string{
		// pipx (old and new layouts)
		filepath.Join(home, ".local", "pipx", "venvs"),
		filepath.Join(home, ".local", "share", "pipx", "venvs"),
		// virtualenvwrapper
		filepath.Join(home, ".virtualenvs"),
		// pipenv / virtualenv
		filepath.Join(home, ".local", "share", "virtualenvs"),
		filepath.Join(home, ".config", "virtualenvs"),
		// poetry
		filepath.Join(home, ".cache", "pypoetry", "virtualenvs"),
		// conda and its variants
		filepath.Join(home, ".conda", "envs"),
		filepath.Join(home, "anaconda3", "envs"),
		filepath.Join(home, "miniconda3", "envs"),
		filepath.Join(home, "miniforge3", "envs"),
		filepath.Join(home, "mambaforge", "envs"),
		// pyenv
		filepath.Join(home, ".pyenv", "versions"),
		// asdf
		filepath.Join(home, ".asdf", "installs", "python"),
	}

	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			roots = append(roots,
				filepath.Join(local, "pypoetry", "Cache", "virtualenvs"),
				filepath.Join(local, "pipx", "venvs"),
			)
		}
		// virtualenvwrapper-win
		roots = append(roots, filepath.Join(home, "Envs"))
	} else {
		roots = append(roots,
			"/usr/local/share/virtualenvs",
			"/usr/share/virtualenvs",
			"/opt/virtualenvs",
			"/opt/anaconda3/envs",
			"/opt/miniconda3/envs",
		)
	}

	return roots
}

// ResolveRoots merges explicit roots (flags), configured roots, and the
// builtin list into the effective, deduplicated scan root set. Explicit
// roots win outright; otherwise configured roots extend the builtins.
// When nothing exists at all, the home directory is the fallback so a
// bare invocation still scans something useful.
func ResolveRoots(explicit []string, cfg *Config) []SearchRoot {
	var roots []SearchRoot

	if len(explicit) > 0 {
		for _, p := range explicit {
			roots = append(roots, makeRoot(p, "flag"))
		}
		return dedupeRoots(roots)
	}

	for _, p := range DefaultSearchRoots() {
		roots = append(roots, makeRoot(p, "builtin"))
	}
	if cfg != nil {
		for _, p := range cfg.Paths {
			roots = append(roots, makeRoot(p, cfg.pathsSource))
		}
	}
	roots = dedupeRoots(roots)

	for _, r := range roots {
		if r.Exists {
			return roots
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return []SearchRoot{makeRoot(home, "builtin")}
	}
	return roots
}

// ExistingPaths filters resolved roots down to the paths worth handing
// to the scanner.
func ExistingPaths(roots []SearchRoot) []string {
	var out []string
	for _, r := range roots {
		if r.Exists {
			out = append(out, r.Path)
		}
	}
	return out
}

func makeRoot(path, source string) SearchRoot {
	path = filepath.Clean(expandHome(os.ExpandEnv(path)))
	info, err := os.Stat(path)
	return SearchRoot{
		Path:   path,
		Source: source,
		Exists: err == nil && info.IsDir(),
	}
}

// expandHome resolves a leading ~ so config entries can use it.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// dedupeRoots drops duplicates after resolving symlinks, keeping the
// first occurrence. Several builtin roots commonly alias one another.
func dedupeRoots(roots []SearchRoot) []SearchRoot {
	seen := make(map[string]bool, len(roots))
	var out []SearchRoot
	for _, r := range roots {
		key := r.Path
		if real, err := filepath.EvalSymlinks(r.Path); err == nil {
			key = real
		}
		if runtime.GOOS == "windows" {
			key = strings.ToLower(key)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
