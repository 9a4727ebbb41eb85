// Unifi-discovery finds UniFi devices on the local network.
//
// It solicits announcements over the UDP discovery protocol, enriches each
// responder through its HTTPS management API, and prints the results as a
// table or JSON.
//
// Usage:
//
//	unifi-discovery [command] [flags]
//
// Running without arguments performs a broadcast scan.
// See 'unifi-discovery --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bdraco/unifi-discovery/internal/logging"
	"github.com/bdraco/unifi-discovery/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "unifi-discovery",
	Short: "UniFi Device Discovery",
	Long: `Discover UniFi devices on the local network.

Sends a discovery request over UDP broadcast, collects device
announcements, and probes each responder's HTTPS management API for
system information and running services.

If no command is specified, a broadcast scan runs with default settings.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("unifi-discovery %s\n", version.Full())
	},
}
