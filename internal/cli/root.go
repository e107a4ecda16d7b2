// Package cli implements the livescope host-shell commands. The engine
// itself is UI-agnostic; this shell exists to exercise it end to end.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/livescope/livescope/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "livescope",
	Short: "Livescope - live telemetry aggregation for dynamic-instrumentation profiling",
	Long: `Livescope ingests timing and symbol events from an instrumented target
process and keeps per-function statistics queryable while the capture is
still running: sortable, filterable, with first/last/min/max lookups
against the recorded timer chains.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("Livescope version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
