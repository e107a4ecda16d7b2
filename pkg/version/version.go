// Package version holds build-time version information.
package version

import "runtime"

// Set via -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GoVersion reports the Go runtime the binary was built with.
var GoVersion = runtime.Version()
