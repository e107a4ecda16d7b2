// Package config provides configuration loading for the livescope host shell.
package config

import (
	"fmt"
	"time"

	"github.com/livescope/livescope/internal/constants"
)

// Config is the global livescope configuration.
type Config struct {
	Log  LogConfig  `yaml:"log"`
	View ViewConfig `yaml:"view"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level sets the logging level (debug, info, warn, error).
	Level string `yaml:"level"`
	// Pretty enables human-readable console output.
	Pretty bool `yaml:"pretty"`
}

// ViewConfig configures the live view.
type ViewConfig struct {
	// RefreshInterval is how often the view re-applies its sort while
	// capturing.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// TableRows caps how many rows the host shell renders.
	TableRows int `yaml:"table_rows"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		View: ViewConfig{
			RefreshInterval: constants.DefaultRefreshInterval,
			TableRows:       constants.DefaultTableRows,
		},
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.View.RefreshInterval <= 0 {
		return fmt.Errorf("view refresh interval must be positive, got %s", c.View.RefreshInterval)
	}
	if c.View.TableRows <= 0 {
		return fmt.Errorf("view table rows must be positive, got %d", c.View.TableRows)
	}
	return nil
}
