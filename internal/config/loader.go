package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/livescope/livescope/internal/constants"
)

// Loader handles loading configuration files.
type Loader struct {
	baseDir string
}

// NewLoader creates a config loader. The base directory is resolved in this
// order:
//  1. LIVESCOPE_CONFIG environment variable.
//  2. User home directory.
//  3. /tmp/livescope-fallback (containerized environments without a home dir).
//
// The loader never fails to construct; when no config file exists, Load
// returns defaults.
func NewLoader() *Loader {
	if baseDir := os.Getenv(constants.ConfigEnvVar); baseDir != "" {
		return &Loader{baseDir: baseDir}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		return &Loader{baseDir: homeDir}
	}

	return &Loader{baseDir: "/tmp/livescope-fallback"}
}

// ConfigPath returns the path to the global config file.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.baseDir, constants.DefaultDir, constants.ConfigFile)
}

// Load reads the global configuration, returning defaults when the file does
// not exist.
func (l *Loader) Load() (*Config, error) {
	path := l.ConfigPath()

	cfg := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		//nolint:gosec // G304: path is under the user's own config directory.
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config at %s: %w", path, err)
	}
	return cfg, nil
}
