package venv

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// defaultConcurrency bounds the number of directory reads in flight.
// Sizing is I/O-bound; a small pool saturates most disks.
const defaultConcurrency = 8

// Measure returns the total size in bytes of all regular files under
// path, recursively. Symbolic links are never followed, so cyclic or
// out-of-tree links can neither loop nor double-count. Unreadable
// entries contribute zero bytes instead of failing the measurement.
func Measure(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}

	s := &sizer{sem: make(chan struct{}, defaultConcurrency)}
	return s.sizeDir(path)
}

// sizer carries the semaphore through the recursive descent.
type sizer struct {
	sem chan struct{}
}

// sizeDir sums a directory's contents, fanning out one goroutine per
// subdirectory. The semaphore is held only during the ReadDir I/O so
// nested acquisitions cannot deadlock.
func (s *sizer) sizeDir(dir string) int64 {
	s.sem <- struct{}{}
	entries, err := os.ReadDir(dir)
	<-s.sem

	if err != nil {
		// Permission denied or race-deleted — undercount, don't fail.
		return 0
	}

	var wg sync.WaitGroup
	var total atomic.Int64

	for _, e := range entries {
		// DirEntry has Lstat semantics: a symlink to a directory is not
		// IsDir, so links are skipped uniformly below.
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			continue
		}

		if e.IsDir() {
			wg.Add(1)
			go func(p string) {
				defer wg.Done()
				total.Add(s.sizeDir(p))
			}(filepath.Join(dir, e.Name()))
			continue
		}
		total.Add(info.Size())
	}

	wg.Wait()
	return total.Load()
}
