// Package diskinfo reports free space on the volumes that hold scan
// roots, for context next to reclaimable sizes.
package diskinfo

import (
	"github.com/shirou/gopsutil/v4/disk"
)

// Volume describes the usage of one mounted volume.
type Volume struct {
	Mount string
	Free  uint64
	Total uint64
}

// ForPath returns usage for the volume containing path.
func ForPath(path string) (Volume, error) {
	u, err := disk.Usage(path)
	if err != nil {
		return Volume{}, err
	}
	return Volume{Mount: u.Path, Free: u.Free, Total: u.Total}, nil
}

// ForPaths returns usage for the distinct volumes holding the given
// paths. Paths whose volume cannot be queried are skipped.
func ForPaths(paths []string) []Volume {
	seen := make(map[string]bool)
	var out []Volume
	for _, p := range paths {
		v, err := ForPath(p)
		if err != nil {
			continue
		}
		if seen[v.Mount] {
			continue
		}
		seen[v.Mount] = true
		out = append(out, v)
	}
	return out
}
