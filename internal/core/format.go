package core

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSize returns a human-readable byte count using 1024 units.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ParseSize parses a human size string like "100MB", "1.5GB", or "512"
// (bare numbers are bytes) into a byte count. Units use 1024 multiples.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	upper := strings.ToUpper(s)
	multiplier := int64(1)
	for _, u := range []struct {
		suffix string
		mult   int64
	}{
		{"TB", 1 << 40}, {"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10},
		{"T", 1 << 40}, {"G", 1 << 30}, {"M", 1 << 20}, {"K", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(upper, u.suffix) {
			multiplier = u.mult
			upper = strings.TrimSuffix(upper, u.suffix)
			break
		}
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(upper), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if num < 0 {
		return 0, fmt.Errorf("negative size %q", s)
	}
	return int64(num * float64(multiplier)), nil
}
