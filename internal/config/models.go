package config

import "time"

// Registry represents the entire user configuration file. It stores
// user-defined metadata for discovered devices and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by hardware address
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single discovered device,
// keyed by its hardware address in the Registry. Everything here is
// client-side bookkeeping; the device itself never sees it.
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	LastIP   string    `yaml:"last_ip,omitempty"`   // Last known IP address
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	ScanTimeout  int    `yaml:"scan_timeout"`            // Discovery collection window in seconds
	Port         int    `yaml:"port,omitempty"`          // Discovery port override (0 means default)
	OutputFormat string `yaml:"output_format,omitempty"` // "table" or "json"
	SkipVendor   bool   `yaml:"skip_vendor,omitempty"`   // Disable OUI vendor lookup
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			ScanTimeout:  10,
			OutputFormat: "table",
		},
	}
}

// GetDevice retrieves device metadata by hardware address.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(hwAddr string) *Device {
	return r.Devices[hwAddr]
}

// EnsureDevice ensures a device entry exists in the registry, creating an
// empty one when needed, and returns it.
func (r *Registry) EnsureDevice(hwAddr string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if device, exists := r.Devices[hwAddr]; exists {
		return device
	}
	device := &Device{}
	r.Devices[hwAddr] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp and IP for a device.
func (r *Registry) UpdateDeviceLastSeen(hwAddr, ip string) {
	device := r.EnsureDevice(hwAddr)
	device.LastSeen = time.Now()
	device.LastIP = ip
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(hwAddr, nickname string) {
	device := r.EnsureDevice(hwAddr)
	device.Nickname = nickname
}
