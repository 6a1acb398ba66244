package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all user-tunable settings.
type Config struct {
	// Paths are additional scan roots beyond the builtin list.
	Paths []string `yaml:"paths"`

	// Exclude lists directory names (case-insensitive) never descended
	// into, e.g. node_modules.
	Exclude []string `yaml:"exclude"`

	// Concurrency bounds parallel directory reads. 0 = default.
	Concurrency int `yaml:"concurrency"`

	// MaxDepth limits descent below each root. 0 = unlimited.
	MaxDepth int `yaml:"max_depth"`

	// pathsSource records where Paths came from for `vp paths` output.
	pathsSource string
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Exclude:     []string{"node_modules", ".git", ".hg", "__pycache__"},
		pathsSource: "config",
	}
}

// DefaultPath returns the platform config file location,
// e.g. ~/.config/venvprune/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "venvprune", "config.yaml")
}

// Load reads the config from a YAML file (if it exists) and overrides
// with environment variables. Environment variables take precedence.
// A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	if v := os.Getenv("VENVPRUNE_PATHS"); v != "" {
		cfg.Paths = splitPathList(v)
		cfg.pathsSource = "env"
	}
	if v := os.Getenv("VENVPRUNE_EXCLUDE"); v != "" {
		cfg.Exclude = strings.Split(v, ",")
	}
	if v := os.Getenv("VENVPRUNE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid VENVPRUNE_CONCURRENCY %q", v)
		}
		cfg.Concurrency = n
	}

	return cfg, nil
}

func splitPathList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, string(os.PathListSeparator)) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
