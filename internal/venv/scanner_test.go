package venv

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// mkEnv creates a structurally valid venv at dir with payload bytes of
// installed packages, returning the total bytes written.
func mkEnv(t *testing.T, dir string, payload int) int64 {
	t.Helper()
	cfg := "version = 3.11.4\n"
	stub := "#!stub\n"
	writeFile(t, filepath.Join(dir, "pyvenv.cfg"), cfg)
	writeFile(t, filepath.Join(dir, "bin", "python"), stub)
	writeFile(t, filepath.Join(dir, "lib", "python3.11", "site-packages", "pkg", "mod.py"),
		strings.Repeat("p", payload))
	return int64(len(cfg) + len(stub) + payload)
}

// walkSize independently computes the byte total of a tree, for
// cross-checking Measure.
func walkSize(t *testing.T, root string) int64 {
	t.Helper()
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	return total
}

func scan(t *testing.T, roots ...string) (*ScanResult, []RootError) {
	t.Helper()
	return NewScanner(0, 0, nil).Scan(context.Background(), roots)
}

func TestScan_NoEnvironments(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, "project", "src"))
	writeFile(t, filepath.Join(root, "project", "README.md"), "hello")

	result, rootErrs := scan(t, root)
	if len(rootErrs) != 0 {
		t.Fatalf("unexpected root errors: %v", rootErrs)
	}
	if len(result.Candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(result.Candidates))
	}
	if result.TotalSize() != 0 {
		t.Errorf("expected zero total, got %d", result.TotalSize())
	}
}

func TestScan_SingleEnvironment(t *testing.T) {
	root := t.TempDir()
	env := filepath.Join(root, "projects", "myenv")
	want := mkEnv(t, env, 1000)

	result, rootErrs := scan(t, root)
	if len(rootErrs) != 0 {
		t.Fatalf("unexpected root errors: %v", rootErrs)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}

	c := result.Candidates[0]
	if c.Path != env {
		t.Errorf("expected path %s, got %s", env, c.Path)
	}
	if c.Name != "myenv" {
		t.Errorf("expected name myenv, got %q", c.Name)
	}
	if c.Kind != KindVenv {
		t.Errorf("expected kind venv, got %q", c.Kind)
	}
	if c.PythonVersion != "3.11.4" {
		t.Errorf("expected python 3.11.4, got %q", c.PythonVersion)
	}
	if c.Size != want {
		t.Errorf("expected size %d, got %d", want, c.Size)
	}
	if independent := walkSize(t, env); c.Size != independent {
		t.Errorf("size %d disagrees with independent walk %d", c.Size, independent)
	}
}

func TestScan_NestedEnvironmentReportedOnce(t *testing.T) {
	root := t.TempDir()
	outer := filepath.Join(root, "outer")
	mkEnv(t, outer, 500)
	// A second environment nested inside the first.
	inner := filepath.Join(outer, "lib", "python3.11", "site-packages", "inner")
	innerSize := mkEnv(t, inner, 300)

	result, _ := scan(t, root)
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}
	c := result.Candidates[0]
	if c.Path != outer {
		t.Errorf("expected the outer environment, got %s", c.Path)
	}

	// Inner bytes are counted once, inside the outer total.
	if want := walkSize(t, outer); c.Size != want {
		t.Errorf("expected size %d, got %d", want, c.Size)
	}
	if c.Size <= innerSize {
		t.Errorf("outer size %d should include inner bytes %d plus its own", c.Size, innerSize)
	}
}

func TestScan_PlainDirectoriesExcluded(t *testing.T) {
	root := t.TempDir()
	size1 := mkEnv(t, filepath.Join(root, "venv1"), 800)
	size2 := mkEnv(t, filepath.Join(root, "venv2"), 600)
	writeFile(t, filepath.Join(root, "notvenv", "data.txt"), strings.Repeat("d", 400))

	result, _ := scan(t, root)
	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(result.Candidates))
	}
	for _, c := range result.Candidates {
		if strings.Contains(c.Path, "notvenv") {
			t.Errorf("plain directory reported as candidate: %s", c.Path)
		}
	}
	if got, want := result.TotalSize(), size1+size2; got != want {
		t.Errorf("expected aggregate %d, got %d", want, got)
	}
}

func TestScan_MultipleRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	mkEnv(t, filepath.Join(rootA, "enva"), 100)
	mkEnv(t, filepath.Join(rootB, "envb"), 200)

	result, rootErrs := scan(t, rootA, rootB)
	if len(rootErrs) != 0 {
		t.Fatalf("unexpected root errors: %v", rootErrs)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates across roots, got %d", len(result.Candidates))
	}

	seen := map[string]bool{}
	for _, c := range result.Candidates {
		seen[c.Name] = true
	}
	if !seen["enva"] || !seen["envb"] {
		t.Errorf("expected one candidate per root, got %v", seen)
	}
}

func TestScan_InvalidRoots(t *testing.T) {
	good := t.TempDir()
	mkEnv(t, filepath.Join(good, "env"), 50)

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	file := filepath.Join(t.TempDir(), "plainfile")
	writeFile(t, file, "x")

	result, rootErrs := scan(t, missing, file, good)
	if len(rootErrs) != 2 {
		t.Fatalf("expected 2 root errors, got %d: %v", len(rootErrs), rootErrs)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("bad roots must not abort good ones; got %d candidates", len(result.Candidates))
	}
}

func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	mkEnv(t, filepath.Join(root, "a"), 10)
	mkEnv(t, filepath.Join(root, "b", "c"), 20)

	first, _ := scan(t, root)
	second, _ := scan(t, root)

	toSet := func(r *ScanResult) map[string]int64 {
		m := make(map[string]int64)
		for _, c := range r.Candidates {
			m[c.Path] = c.Size
		}
		return m
	}

	a, b := toSet(first), toSet(second)
	if len(a) != len(b) {
		t.Fatalf("scans disagree on count: %d vs %d", len(a), len(b))
	}
	for path, size := range a {
		if b[path] != size {
			t.Errorf("scans disagree on %s: %d vs %d", path, size, b[path])
		}
	}
}

func TestScan_DuplicateRootsDeduped(t *testing.T) {
	root := t.TempDir()
	mkEnv(t, filepath.Join(root, "env"), 30)

	result, _ := scan(t, root, root)
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate for duplicate roots, got %d", len(result.Candidates))
	}
}

func TestScan_OverlappingRootsNoNestedReport(t *testing.T) {
	root := t.TempDir()
	outer := filepath.Join(root, "outer")
	mkEnv(t, outer, 100)
	inner := filepath.Join(outer, "lib", "python3.11", "site-packages", "inner")
	mkEnv(t, inner, 50)

	// The inner environment is handed over directly as its own root,
	// plus the tree that contains both.
	result, _ := scan(t, inner, root)
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}
	if result.Candidates[0].Path != outer {
		t.Errorf("expected outer env to win, got %s", result.Candidates[0].Path)
	}
}

func TestScan_ExcludedDirectoriesSkipped(t *testing.T) {
	root := t.TempDir()
	mkEnv(t, filepath.Join(root, "node_modules", "sneaky"), 10)
	mkEnv(t, filepath.Join(root, "keep"), 20)

	s := NewScanner(0, 0, []string{"node_modules"})
	result, _ := s.Scan(context.Background(), []string{root})
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}
	if result.Candidates[0].Name != "keep" {
		t.Errorf("expected keep, got %s", result.Candidates[0].Name)
	}
}

func TestScan_MaxDepth(t *testing.T) {
	root := t.TempDir()
	mkEnv(t, filepath.Join(root, "a", "b", "c", "deep-env"), 10)

	shallow := NewScanner(0, 2, nil)
	result, _ := shallow.Scan(context.Background(), []string{root})
	if len(result.Candidates) != 0 {
		t.Fatalf("depth 2 must not reach an env 4 levels down, got %d", len(result.Candidates))
	}

	unlimited := NewScanner(0, 0, nil)
	result, _ = unlimited.Scan(context.Background(), []string{root})
	if len(result.Candidates) != 1 {
		t.Fatalf("unlimited depth should find the env, got %d", len(result.Candidates))
	}
}

func TestScan_CanceledContext(t *testing.T) {
	root := t.TempDir()
	mkEnv(t, filepath.Join(root, "env"), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, rootErrs := NewScanner(0, 0, nil).Scan(ctx, []string{root})
	if len(rootErrs) != 0 {
		t.Fatalf("cancellation is not a root error: %v", rootErrs)
	}
	// Partial (here: empty) results are still a valid ScanResult.
	if result == nil {
		t.Fatal("expected a non-nil result after cancellation")
	}
	if len(result.Candidates) != 0 {
		t.Errorf("expected no candidates after pre-canceled scan, got %d", len(result.Candidates))
	}
}

func TestScan_SymlinkedEnvironmentNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	realRoot := t.TempDir()
	env := filepath.Join(realRoot, "env")
	mkEnv(t, env, 10)

	scanRoot := t.TempDir()
	if err := os.Symlink(env, filepath.Join(scanRoot, "link-to-env")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	// Links inside a root are not descended; only real directories count.
	result, _ := scan(t, scanRoot)
	if len(result.Candidates) != 0 {
		t.Fatalf("expected links not to be followed, got %d candidates", len(result.Candidates))
	}

	// A symlinked root, however, is canonicalized and scanned.
	result, _ = scan(t, filepath.Join(scanRoot, "link-to-env"))
	if len(result.Candidates) != 1 {
		t.Fatalf("expected symlinked root to resolve, got %d candidates", len(result.Candidates))
	}
	if result.Candidates[0].Path != env {
		t.Errorf("expected canonical path %s, got %s", env, result.Candidates[0].Path)
	}
}

func TestScan_UnreadableSubtreeStillReported(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits work differently on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("running as root, permissions are not enforced")
	}

	root := t.TempDir()
	env := filepath.Join(root, "env")
	full := mkEnv(t, env, 100)
	writeFile(t, filepath.Join(env, "lib", "locked", "big"), strings.Repeat("b", 4096))

	locked := filepath.Join(env, "lib", "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	result, _ := scan(t, root)
	if len(result.Candidates) != 1 {
		t.Fatalf("unreadable subtree must not drop the candidate, got %d", len(result.Candidates))
	}
	got := result.Candidates[0].Size
	if got != full {
		t.Errorf("expected undercount equal to readable bytes %d, got %d", full, got)
	}
	if got >= full+4096 {
		t.Errorf("size %d must exclude the unreadable subtree", got)
	}
}

func TestScanner_Warnings(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits work differently on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("running as root, permissions are not enforced")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	mkdir(t, locked)
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	s := NewScanner(0, 0, nil)
	_, _ = s.Scan(context.Background(), []string{root})

	if len(s.Warnings()) == 0 {
		t.Error("expected a warning for the unreadable directory")
	}
	if s.ScannedCount() == 0 {
		t.Error("expected a nonzero scanned count")
	}
}
