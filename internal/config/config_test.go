package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config file must not error: %v", err)
	}
	if len(cfg.Exclude) == 0 {
		t.Error("expected default excludes")
	}
	if cfg.Concurrency != 0 {
		t.Errorf("expected default concurrency 0, got %d", cfg.Concurrency)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
paths:
  - /data/envs
  - ~/work/envs
exclude:
  - node_modules
concurrency: 4
max_depth: 6
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(cfg.Paths))
	}
	if cfg.Concurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.Concurrency)
	}
	if cfg.MaxDepth != 6 {
		t.Errorf("expected max_depth 6, got %d", cfg.MaxDepth)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "paths: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "paths:\n  - /from/file\nconcurrency: 2\n")

	t.Setenv("VENVPRUNE_PATHS", strings.Join([]string{"/from/env/a", "/from/env/b"}, string(os.PathListSeparator)))
	t.Setenv("VENVPRUNE_CONCURRENCY", "16")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Paths) != 2 || cfg.Paths[0] != "/from/env/a" {
		t.Errorf("env paths must win, got %v", cfg.Paths)
	}
	if cfg.Concurrency != 16 {
		t.Errorf("env concurrency must win, got %d", cfg.Concurrency)
	}
	if cfg.pathsSource != "env" {
		t.Errorf("expected pathsSource env, got %q", cfg.pathsSource)
	}
}

func TestLoad_InvalidConcurrencyEnv(t *testing.T) {
	t.Setenv("VENVPRUNE_CONCURRENCY", "many")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for non-numeric concurrency")
	}
}

func TestResolveRoots_ExplicitWins(t *testing.T) {
	existing := t.TempDir()
	missing := filepath.Join(t.TempDir(), "nope")

	roots := ResolveRoots([]string{existing, missing}, Default())
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	for _, r := range roots {
		if r.Source != "flag" {
			t.Errorf("explicit roots must be flag-sourced, got %q", r.Source)
		}
	}
	if !roots[0].Exists || roots[1].Exists {
		t.Errorf("existence flags wrong: %+v", roots)
	}

	paths := ExistingPaths(roots)
	if len(paths) != 1 || paths[0] != existing {
		t.Errorf("expected only the existing path, got %v", paths)
	}
}

func TestResolveRoots_DuplicatesCollapse(t *testing.T) {
	dir := t.TempDir()
	roots := ResolveRoots([]string{dir, dir, dir + string(filepath.Separator) + "."}, nil)
	if len(roots) != 1 {
		t.Fatalf("expected duplicates to collapse, got %d roots", len(roots))
	}
}

func TestResolveRoots_ConfigExtendsBuiltins(t *testing.T) {
	extra := t.TempDir()
	cfg := Default()
	cfg.Paths = []string{extra}

	roots := ResolveRoots(nil, cfg)
	var found bool
	for _, r := range roots {
		if r.Path == extra {
			found = true
			if r.Source != "config" {
				t.Errorf("expected config source, got %q", r.Source)
			}
		}
	}
	if !found {
		t.Error("configured path missing from resolved roots")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if got := expandHome("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("expected %s, got %s", filepath.Join(home, "x"), got)
	}
	if got := expandHome("/abs/x"); got != "/abs/x" {
		t.Errorf("absolute paths must pass through, got %s", got)
	}
	if got := expandHome("~"); got != home {
		t.Errorf("bare tilde must expand to home, got %s", got)
	}
}
