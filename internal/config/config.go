// Package config loads lumen.yaml, the per-project settings of the lumen
// checker: diagnostic limits, disabled warnings and watch-mode behavior.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level lumen.yaml configuration.
type Config struct {
	Check Check `yaml:"check"`
	Watch Watch `yaml:"watch"`
}

// Check configures diagnostic reporting.
type Check struct {
	// MaxErrors stops reporting after this many errors. 0 means unlimited.
	MaxErrors int `yaml:"max_errors,omitempty"`

	// DisabledWarnings lists warning codes (e.g. "W3101") that are
	// filtered from the output. Error codes cannot be disabled.
	DisabledWarnings []string `yaml:"disabled_warnings,omitempty"`

	// WarningsAsErrors makes any surviving warning fail the run.
	WarningsAsErrors bool `yaml:"warnings_as_errors,omitempty"`
}

// Watch configures the file-watching re-check loop.
type Watch struct {
	// DebounceMs is the quiet period after a file event before a
	// re-check runs, in milliseconds. Defaults to 200.
	DebounceMs int `yaml:"debounce_ms,omitempty"`

	// Paths lists extra directories to watch besides the input files'
	// directories.
	Paths []string `yaml:"paths,omitempty"`
}

// Default returns the configuration used when no lumen.yaml is present.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a lumen.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses lumen.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for lumen.yaml starting from dir and walking up to
// parent directories. Returns the path and nil error if found, or empty
// string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, "lumen.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		candidate = filepath.Join(dir, "lumen.yml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.Check.MaxErrors < 0 {
		return fmt.Errorf("%s: check.max_errors must not be negative", path)
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("%s: watch.debounce_ms must not be negative", path)
	}
	for i, code := range c.Check.DisabledWarnings {
		if !strings.HasPrefix(code, "W") {
			return fmt.Errorf("%s: check.disabled_warnings[%d]: %q is not a warning code", path, i, code)
		}
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = 200
	}
}

// WarningDisabled reports whether a warning code is filtered out.
func (c *Config) WarningDisabled(code string) bool {
	for _, disabled := range c.Check.DisabledWarnings {
		if disabled == code {
			return true
		}
	}
	return false
}

// Debounce returns the watch debounce as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}
