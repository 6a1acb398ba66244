package core

import "testing"

func TestFormatSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{800 * 1 << 20, "800.0 MB"},
		{1 << 30, "1.0 GB"},
		{3 * (1 << 40), "3.0 TB"},
	}

	for _, tc := range cases {
		if got := FormatSize(tc.in); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"512", 512},
		{"512B", 512},
		{"1K", 1024},
		{"1KB", 1024},
		{"100MB", 100 * 1 << 20},
		{"1.5GB", 3 * (1 << 30) / 2},
		{"2T", 2 * (1 << 40)},
		{" 10 MB ", 10 * 1 << 20},
		{"100mb", 100 * 1 << 20},
	}

	for _, tc := range cases {
		got, err := ParseSize(tc.in)
		if err != nil {
			t.Errorf("ParseSize(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"abc", "-5MB", "12QB"} {
		if _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q): expected error", bad)
		}
	}
}
