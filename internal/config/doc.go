// Package config provides user configuration management for unifi-discovery.
//
// This package manages a YAML-based configuration file that stores
// user-defined metadata for discovered devices (nicknames, last seen
// addresses) and application preferences such as the scan timeout and
// output format. The configuration follows OS-specific conventions for
// storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/unifi-discovery/config.yaml or $HOME/.config/unifi-discovery/config.yaml
//   - macOS: $HOME/.config/unifi-discovery/config.yaml
//   - Windows: %LOCALAPPDATA%\unifi-discovery\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetDeviceNickname("24:5a:4c:dd:66:16", "Rack Console")
//	registry.UpdateDeviceLastSeen("24:5a:4c:dd:66:16", "192.168.1.1")
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex to ensure atomic
// writes.
package config
