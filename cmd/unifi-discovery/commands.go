package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bdraco/unifi-discovery/internal/config"
	"github.com/bdraco/unifi-discovery/internal/device"
	"github.com/bdraco/unifi-discovery/internal/discovery"
	"github.com/bdraco/unifi-discovery/internal/logging"
	"github.com/bdraco/unifi-discovery/internal/probe"
	"github.com/bdraco/unifi-discovery/internal/ui"
)

// Scan command flags
var (
	scanTimeout  int
	scanAddress  string
	scanPort     int
	outputFormat string
	liveView     bool
	noVendor     bool
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(aliveCmd)
	rootCmd.AddCommand(nicknameCmd)

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from config, 10)")
	scanCmd.Flags().StringVar(&scanAddress, "address", "", "Scan a single device instead of broadcasting")
	scanCmd.Flags().IntVar(&scanPort, "port", 0, "Discovery port override")
	scanCmd.Flags().StringVar(&outputFormat, "format", "", "Output format (table, json)")
	scanCmd.Flags().BoolVar(&liveView, "live", false, "Show devices as they are found")
	scanCmd.Flags().BoolVar(&noVendor, "no-vendor", false, "Skip MAC vendor lookup")

	aliveCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Probe timeout in seconds")
}

// scanCmd discovers devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for UniFi devices on the network",
	Long: `Scan for UniFi devices using the UDP discovery protocol.

This command broadcasts a discovery request, collects announcements for
the duration of the timeout, and probes each responder's management API.
With --address, the request is sent to one device and the scan ends as
soon as it answers.`,
	Example: `  # Broadcast scan for 10 seconds (default)
  unifi-discovery scan

  # Quick 3-second scan
  unifi-discovery scan --timeout 3

  # Scan a single device
  unifi-discovery scan --address 192.168.1.1

  # JSON output for scripting
  unifi-discovery scan --format json`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	prefs := loadPreferences()

	timeout := time.Duration(effectiveTimeout(prefs)) * time.Second
	format := outputFormat
	if format == "" {
		format = prefs.OutputFormat
	}
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown output format %q (want table or json)", format)
	}

	cfg := discovery.Config{
		Port:                scanPort,
		DisableVendorLookup: noVendor || prefs.SkipVendor,
	}

	var devices []*device.Device
	var err error
	if liveView && format == "table" {
		devices, err = ui.RunLiveScan(func(report func(*device.Device)) ([]*device.Device, error) {
			cfg.OnDevice = report
			return discovery.NewScanner(cfg).Scan(context.Background(), timeout, scanAddress)
		})
	} else {
		if scanAddress == "" {
			fmt.Printf("Scanning for UniFi devices (timeout: %s)...\n\n", timeout)
		} else {
			fmt.Printf("Scanning %s (timeout: %s)...\n\n", scanAddress, timeout)
		}
		devices, err = discovery.NewScanner(cfg).Scan(context.Background(), timeout, scanAddress)
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	rememberDevices(devices)

	switch format {
	case "json":
		data, err := json.MarshalIndent(devices, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	default:
		if scanAddress != "" && len(devices) == 1 {
			fmt.Println(ui.RenderDeviceDetail(devices[0]))
			return nil
		}
		return printScanTable(devices)
	}
}

func printScanTable(devices []*device.Device) error {
	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure you are on the same layer-2 network as the devices")
		fmt.Println("  - Check that UDP port 10001 is not blocked by a firewall")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --address to target a device whose IP you know")
		return nil
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))
	fmt.Println(ui.RenderDeviceTable(devices))
	return nil
}

// aliveCmd checks whether a device's management API responds
var aliveCmd = &cobra.Command{
	Use:   "alive <address>",
	Short: "Check whether a device's management API answers",
	Long: `Check whether a device is alive by probing its HTTPS management API.

A device counts as alive when the API answers at all, including with an
authentication challenge. The exit status is 0 when alive, 1 otherwise.`,
	Example: `  unifi-discovery alive 192.168.1.1`,
	Args:    cobra.ExactArgs(1),
	RunE:    runAlive,
}

func runAlive(cmd *cobra.Command, args []string) error {
	address := args[0]
	prefs := loadPreferences()
	timeout := time.Duration(effectiveTimeout(prefs)) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	p := probe.NewProber(address)
	p.HTTPClient = probe.NewHTTPClient(timeout)
	if !p.IsAlive(ctx) {
		return fmt.Errorf("%s %s did not respond", ui.FailureMarker, address)
	}
	fmt.Printf("%s %s is alive\n", ui.SuccessMarker, address)
	return nil
}

// nicknameCmd assigns a local nickname to a device
var nicknameCmd = &cobra.Command{
	Use:   "nickname <mac> <name>",
	Short: "Assign a local nickname to a device",
	Long: `Assign a nickname to a device, stored in the local configuration file.

Nicknames are client-side only; the device never sees them.`,
	Example: `  unifi-discovery nickname 24:5a:4c:dd:66:16 "Rack Console"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runNickname,
}

func runNickname(cmd *cobra.Command, args []string) error {
	mac := device.FormatMAC(args[0])
	if mac == "" {
		return fmt.Errorf("invalid MAC address %q", args[0])
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	registry.SetDeviceNickname(mac, args[1])
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Printf("%s %s is now %q\n", ui.SuccessMarker, mac, args[1])
	return nil
}

// loadPreferences returns saved preferences, falling back to defaults when
// the configuration cannot be read.
func loadPreferences() *config.Preferences {
	registry, err := config.LoadRegistry()
	if err != nil || registry.Preferences == nil {
		return config.NewRegistry().Preferences
	}
	return registry.Preferences
}

func effectiveTimeout(prefs *config.Preferences) int {
	if scanTimeout > 0 {
		return scanTimeout
	}
	if prefs.ScanTimeout > 0 {
		return prefs.ScanTimeout
	}
	return 10
}

// rememberDevices records when and where each device was last seen. Best
// effort; scan output never depends on the configuration file.
func rememberDevices(devices []*device.Device) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}
	updated := false
	for _, d := range devices {
		if d.HWAddr == "" {
			continue
		}
		registry.UpdateDeviceLastSeen(d.HWAddr, d.SourceIP)
		updated = true
	}
	if updated {
		if err := registry.Save(); err != nil {
			logging.Error("failed to save device history", zap.Error(err))
		}
	}
}
