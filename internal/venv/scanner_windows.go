//go:build windows

package venv

import "golang.org/x/sys/windows"

// Windows filesystems are case-insensitive; visited-set keys must be
// folded or the same directory reached under two spellings is walked
// twice.
const isCaseInsensitiveFS = true

// isLink reports whether path is a junction or symlink
// (FILE_ATTRIBUTE_REPARSE_POINT). Junctions stat as directories, so the
// generic Lstat symlink check misses them.
func isLink(path string) bool {
	pathp, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(pathp)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0
}
