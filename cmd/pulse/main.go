package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pulse",
		Short: "Observable property primitives for Go model layers",
		Long: `Pulse provides observable value primitives: properties with
change notification, derived read-only projections, multi-property
observers, and named property groups.

The CLI ships a small instrumented demo model for exploring the
primitives and their Prometheus/OpenTelemetry collaborators.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
