// Package constants defines shared configuration constants and defaults.
package constants

import "time"

// Directories and files.
const (
	// DefaultDir is the livescope config directory under the user's home.
	DefaultDir = ".livescope"

	// ConfigFile is the name of the global config file.
	ConfigFile = "config.yaml"

	// ConfigEnvVar overrides the config base directory when set.
	ConfigEnvVar = "LIVESCOPE_CONFIG"
)

// View defaults.
const (
	// DefaultRefreshInterval is how often the live view re-applies its sort
	// while a capture is recording.
	DefaultRefreshInterval = 300 * time.Millisecond

	// DefaultTableRows is the default row budget for the host-shell table.
	DefaultTableRows = 25
)

// Capture defaults.
const (
	// TimerBlockCapacity is the fixed capacity of one timer-chain block.
	// Blocks are never reallocated, so interval pointers stay valid for the
	// lifetime of a session.
	TimerBlockCapacity = 1024

	// InstrumentationPrefix marks functions injected by the instrumentation
	// runtime itself. They carry stats but are excluded from the live view.
	InstrumentationPrefix = "__livescope_"
)
