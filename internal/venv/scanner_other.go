//go:build !windows

package venv

import "os"

const isCaseInsensitiveFS = false

// isLink reports whether path is a symbolic link.
func isLink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}
