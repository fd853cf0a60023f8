// Package config loads the process-wide execution-safety configuration.
//
// Configuration is read once at startup and treated as immutable for the
// process lifetime. Hot-reload is deliberately unsupported.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults for resource limits. These apply whenever the config file is
// absent or leaves a field unset.
const (
	// DefaultTimeoutMS is the wall-clock execution deadline in milliseconds.
	DefaultTimeoutMS = 60_000
	// DefaultMaxMemoryBytes is the advisory memory ceiling for spawned processes.
	DefaultMaxMemoryBytes = 512 * 1024 * 1024 // 512 MiB
	// DefaultMaxOutputBytes caps captured stdout/stderr per stream.
	DefaultMaxOutputBytes = 10 * 1024 * 1024 // 10 MiB
)

// Config holds the execution-safety settings shared by the validator,
// the sandbox, and the confirmation gate.
type Config struct {
	// TimeoutMS is the default execution deadline in milliseconds.
	TimeoutMS int64 `yaml:"timeout_ms"`

	// MaxMemoryBytes is the advisory per-process memory ceiling.
	MaxMemoryBytes int64 `yaml:"max_memory_bytes"`

	// MaxOutputBytes caps the bytes retained from each of stdout and stderr.
	MaxOutputBytes int64 `yaml:"max_output_bytes"`

	// DryRun forces every destructive action to preview-only behavior.
	DryRun bool `yaml:"dry_run"`
}

// Default returns a Config populated with the documented defaults.
func Default() Config {
	return Config{
		TimeoutMS:      DefaultTimeoutMS,
		MaxMemoryBytes: DefaultMaxMemoryBytes,
		MaxOutputBytes: DefaultMaxOutputBytes,
	}
}

// Load reads config.yaml from the given home directory. A missing file is
// not an error — defaults apply. Unset fields are filled with defaults;
// negative limits are rejected.
func Load(home string) (Config, error) {
	cfg := Default()

	path := filepath.Join(home, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if file.TimeoutMS != 0 {
		cfg.TimeoutMS = file.TimeoutMS
	}
	if file.MaxMemoryBytes != 0 {
		cfg.MaxMemoryBytes = file.MaxMemoryBytes
	}
	if file.MaxOutputBytes != 0 {
		cfg.MaxOutputBytes = file.MaxOutputBytes
	}
	cfg.DryRun = file.DryRun

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every limit is a positive integer.
func (c Config) Validate() error {
	if c.TimeoutMS <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", c.TimeoutMS)
	}
	if c.MaxMemoryBytes <= 0 {
		return fmt.Errorf("max_memory_bytes must be positive, got %d", c.MaxMemoryBytes)
	}
	if c.MaxOutputBytes <= 0 {
		return fmt.Errorf("max_output_bytes must be positive, got %d", c.MaxOutputBytes)
	}
	return nil
}

// DefaultHome returns the configuration home directory, honoring the
// EXECGUARD_HOME override.
func DefaultHome() (string, error) {
	if home := os.Getenv("EXECGUARD_HOME"); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(userHome, ".execguard"), nil
}
