package venv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Scanner walks directory trees looking for Python environments.
// A Scanner is reusable and safe for concurrent Scans: all traversal
// state lives in a per-Scan walk, not on the Scanner itself.
type Scanner struct {
	sem      chan struct{}
	exclude  map[string]bool
	maxDepth int

	mu           sync.Mutex
	warnings     []string
	scannedCount atomic.Int64
}

// NewScanner creates a scanner with bounded concurrency. exclude is a
// list of directory names (case-insensitive) to skip; maxDepth limits
// descent below each root (0 = unlimited).
func NewScanner(maxConcurrency, maxDepth int, exclude []string) *Scanner {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultConcurrency
	}
	excMap := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excMap[strings.ToLower(e)] = true
	}
	return &Scanner{
		sem:      make(chan struct{}, maxConcurrency),
		exclude:  excMap,
		maxDepth: maxDepth,
	}
}

// Warnings returns any warnings accumulated during scanning.
func (s *Scanner) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// ScannedCount returns the number of directories visited so far.
// Safe to read while a Scan is in flight.
func (s *Scanner) ScannedCount() int64 {
	return s.scannedCount.Load()
}

func (s *Scanner) addWarning(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < 500 {
		s.warnings = append(s.warnings, msg)
	}
}

// Scan walks each root depth-first and returns every environment found,
// with one RootError per root that does not exist or is not a directory.
// Unreadable directories inside a root are skipped, not fatal.
// Cancellation via ctx stops descent between directory visits; the
// partial result gathered up to that point is still valid.
func (s *Scanner) Scan(ctx context.Context, roots []string) (*ScanResult, []RootError) {
	w := &walk{
		scanner: s,
		visited: make(map[string]bool),
	}

	var rootErrs []RootError
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			rootErrs = append(rootErrs, RootError{Root: root, Err: err})
			continue
		}

		info, err := os.Stat(abs)
		if err != nil {
			rootErrs = append(rootErrs, RootError{Root: root, Err: err})
			continue
		}
		if !info.IsDir() {
			rootErrs = append(rootErrs, RootError{Root: root, Err: errors.New("not a directory")})
			continue
		}

		// Canonicalize the root so symlinked or duplicate roots resolve
		// to one real tree and the visited set can dedupe them.
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			abs = real
		}

		w.dir(ctx, abs, 0)
	}

	return &ScanResult{Candidates: dedupeNested(w.candidates)}, rootErrs
}

// walk carries the traversal state of a single Scan.
type walk struct {
	scanner *Scanner

	mu         sync.Mutex
	visited    map[string]bool
	candidates []Candidate
}

// mark records a directory as visited; returns false if it already was.
func (w *walk) mark(dir string) bool {
	key := dir
	if isCaseInsensitiveFS {
		key = strings.ToLower(dir)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visited[key] {
		return false
	}
	w.visited[key] = true
	return true
}

func (w *walk) add(c Candidate) {
	w.mu.Lock()
	w.candidates = append(w.candidates, c)
	w.mu.Unlock()
}

// dir visits one directory: classify it, and either emit a candidate
// (pruning the subtree — an environment cannot contain another
// reportable one) or fan out into its subdirectories.
func (w *walk) dir(ctx context.Context, dir string, depth int) {
	if ctx.Err() != nil {
		return
	}
	if !w.mark(dir) {
		return
	}
	s := w.scanner
	s.scannedCount.Add(1)

	// Hold the semaphore only during the ReadDir I/O.
	s.sem <- struct{}{}
	entries, err := os.ReadDir(dir)
	<-s.sem

	if err != nil {
		s.addWarning("cannot read " + dir + ": " + err.Error())
		return
	}

	if kind, ok := Classify(entries); ok {
		w.add(newCandidate(dir, kind))
		return
	}

	if s.maxDepth > 0 && depth >= s.maxDepth {
		return
	}

	var wg sync.WaitGroup
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if s.exclude[strings.ToLower(e.Name())] {
			continue
		}

		child := filepath.Join(dir, e.Name())

		// Never descend through symlinks or junctions — the visited set
		// guards cross-root revisits, but cycles are cheapest to avoid
		// by not following links at all.
		if isLink(child) {
			s.addWarning("skipping link: " + child)
			continue
		}

		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			w.dir(ctx, p, depth+1)
		}(child)
	}
	wg.Wait()
}

// dedupeNested drops any candidate whose path is a descendant of
// another candidate's path. Overlapping roots can otherwise report an
// inner environment that an outer one already accounts for.
func dedupeNested(cands []Candidate) []Candidate {
	if len(cands) < 2 {
		return cands
	}

	sorted := append([]Candidate(nil), cands...)
	sort.Slice(sorted, func(i, j int) bool {
		return len(sorted[i].Path) < len(sorted[j].Path)
	})

	keepPaths := make([]string, 0, len(sorted))
	keep := make(map[string]bool, len(sorted))
outer:
	for _, c := range sorted {
		for _, p := range keepPaths {
			if strings.HasPrefix(c.Path, p+string(filepath.Separator)) {
				continue outer
			}
		}
		keepPaths = append(keepPaths, c.Path)
		keep[c.Path] = true
	}

	// Preserve discovery order.
	out := cands[:0]
	for _, c := range cands {
		if keep[c.Path] {
			out = append(out, c)
		}
	}
	return out
}
