// Package device holds the consolidated record for one discovered UniFi
// device and the merge rules that combine UDP announcements with facts
// probed from the HTTP management API.
//
// A record is keyed by the address its first datagram arrived from. UDP
// merges are field-by-field with the newest non-empty value winning, except
// IPInfo which is replaced wholesale by the newest decode. HTTP facts are
// applied strictly after the collection window and win for the fields they
// set, with one exception: an API-reported MAC only fills HWAddr when the
// wire never provided one.
package device

import (
	"fmt"
	"strings"
	"time"

	"github.com/bdraco/unifi-discovery/internal/protocol"
)

// Service identifies a vendor application whose presence can be detected
// through the management API.
type Service int

const (
	// ServiceProtect is the UniFi Protect video surveillance service.
	ServiceProtect Service = iota
)

// String returns the service name.
func (s Service) String() string {
	switch s {
	case ServiceProtect:
		return "Protect"
	default:
		return fmt.Sprintf("Service(%d)", int(s))
	}
}

// MarshalText renders the service name for use as a JSON map key.
func (s Service) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Device is one discovered device. Field names in JSON follow the wire
// vocabulary so scan output can be consumed by existing tooling.
type Device struct {
	// SourceIP is the address the first datagram arrived from. It is the
	// record's identity for merging and never changes.
	SourceIP string `json:"source_ip"`

	// HWAddr is the primary hardware address from tag 0x01, colon-hex.
	HWAddr string `json:"hw_addr,omitempty"`

	// IPInfo lists "mac;ip" pairs from tag 0x02.
	IPInfo []string `json:"ip_info,omitempty"`

	// AddrEntry is the device's self-reported IPv4 from tag 0x04.
	AddrEntry string `json:"addr_entry,omitempty"`

	// FWVersion is the firmware version string from tag 0x03.
	FWVersion string `json:"fw_version,omitempty"`

	// MACAddress is the secondary/management MAC from tag 0x05. Real
	// packets can disagree with HWAddr; both are kept as-is.
	MACAddress string `json:"mac_address,omitempty"`

	// Uptime is seconds since boot from tag 0x0a. Pointer so that a zero
	// uptime is distinguishable from absent.
	Uptime *uint32 `json:"uptime,omitempty"`

	Hostname string `json:"hostname,omitempty"`
	Platform string `json:"platform,omitempty"`
	Model    string `json:"model,omitempty"`

	// SignatureVersion is the decimal form of the packet header version.
	SignatureVersion string `json:"signature_version,omitempty"`

	// Services maps detected vendor services to their presence. An absent
	// entry means the probe could not determine anything.
	Services map[Service]bool `json:"services,omitempty"`

	// Facts available only from a successful system-info fetch.
	DirectConnectDomain string `json:"direct_connect_domain,omitempty"`
	IsSSOEnabled        *bool  `json:"is_sso_enabled,omitempty"`
	IsSingleUser        *bool  `json:"is_single_user,omitempty"`

	// Vendor is the OUI registrant for HWAddr, when known.
	Vendor string `json:"vendor,omitempty"`

	// FirstSeen is when the record was created.
	FirstSeen time.Time `json:"-"`
}

// New creates an empty record for a source address.
func New(sourceIP string) *Device {
	return &Device{SourceIP: sourceIP, FirstSeen: time.Now()}
}

// Merge folds one decoded announcement into the record. Later non-empty
// values win; IPInfo is replaced wholesale by the newest decode.
func (d *Device) Merge(a *protocol.Announcement) {
	if a == nil {
		return
	}
	if a.HWAddr != "" {
		d.HWAddr = a.HWAddr
	}
	if a.IPInfo != nil {
		d.IPInfo = append([]string(nil), a.IPInfo...)
	}
	if a.AddrEntry != "" {
		d.AddrEntry = a.AddrEntry
	}
	if a.FWVersion != "" {
		d.FWVersion = a.FWVersion
	}
	if a.MACAddress != "" {
		d.MACAddress = a.MACAddress
	}
	if a.Uptime != nil {
		uptime := *a.Uptime
		d.Uptime = &uptime
	}
	if a.Hostname != "" {
		d.Hostname = a.Hostname
	}
	if a.Platform != "" {
		d.Platform = a.Platform
	}
	if a.Model != "" {
		d.Model = a.Model
	}
	if a.SignatureVersion != "" {
		d.SignatureVersion = a.SignatureVersion
	}
}

// SetService records a probe's verdict on a service. Probes that could not
// reach the device never call this, leaving the entry absent.
func (d *Device) SetService(s Service, present bool) {
	if d.Services == nil {
		d.Services = make(map[Service]bool)
	}
	d.Services[s] = present
}

// String returns a one-line summary for logs and CLI output.
func (d *Device) String() string {
	parts := []string{d.SourceIP}
	if d.Hostname != "" {
		parts = append(parts, d.Hostname)
	}
	if d.Platform != "" {
		parts = append(parts, d.Platform)
	}
	if d.HWAddr != "" {
		parts = append(parts, d.HWAddr)
	}
	return strings.Join(parts, " ")
}

// FormatMAC normalizes a MAC address in any common notation (bare hex,
// colon, dash or dot separated, any case) to lowercase colon-hex. It
// returns the empty string when the input is not a 48-bit address.
func FormatMAC(s string) string {
	cleaned := strings.ToLower(strings.NewReplacer(":", "", "-", "", ".", "").Replace(s))
	if len(cleaned) != 12 {
		return ""
	}
	for _, r := range cleaned {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return ""
		}
	}
	var b strings.Builder
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(cleaned[i : i+2])
	}
	return b.String()
}
