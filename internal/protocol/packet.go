package protocol

import (
	"fmt"
	"net"
	"strings"
)

// Wire format constants for UBNT v1 discovery packets
const (
	// HeaderSize is the fixed packet header: version, command, 2-byte length
	HeaderSize = 4

	// TLVHeadSize is the per-entry header: tag plus 2-byte value length
	TLVHeadSize = 3

	// Version is the protocol version emitted by current firmware
	Version = 0x01

	// CmdDiscover is the "who is out there" command code
	CmdDiscover = 0x00
)

// TLV tags carried in discovery responses (fixed table; anything else is
// reserved and skipped)
const (
	TagHWAddr    = 0x01 // 6-byte primary hardware address
	TagMACIPPair = 0x02 // 6-byte MAC followed by 4-byte IPv4
	TagFWVersion = 0x03 // firmware version string
	TagAddrEntry = 0x04 // 4-byte self-reported IPv4
	TagMACAddr   = 0x05 // 6-byte secondary/management MAC
	TagUptime    = 0x0a // 4-byte big-endian uptime in seconds
	TagHostname  = 0x0b // hostname string
	TagPlatform  = 0x0c // platform identifier string
	TagModel     = 0x14 // model identifier string
)

// Announcement is the partial device fact set decoded from one datagram.
// String fields are empty when the corresponding tag was absent; Uptime is
// nil when absent so a zero uptime survives merging.
type Announcement struct {
	HWAddr           string
	IPInfo           []string
	FWVersion        string
	AddrEntry        string
	MACAddress       string
	Uptime           *uint32
	Hostname         string
	Platform         string
	Model            string
	SignatureVersion string
}

// String returns a compact debug representation of the announcement.
func (a *Announcement) String() string {
	parts := []string{fmt.Sprintf("v=%s", a.SignatureVersion)}
	if a.HWAddr != "" {
		parts = append(parts, "hw="+a.HWAddr)
	}
	if a.Hostname != "" {
		parts = append(parts, "host="+a.Hostname)
	}
	if a.Platform != "" {
		parts = append(parts, "platform="+a.Platform)
	}
	if a.Uptime != nil {
		parts = append(parts, fmt.Sprintf("uptime=%d", *a.Uptime))
	}
	return "Announcement{" + strings.Join(parts, ", ") + "}"
}

// formatMAC renders 6 raw bytes as lowercase colon-separated hex.
func formatMAC(b []byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b[0], b[1], b[2], b[3], b[4], b[5])
}

// formatIPv4 renders 4 raw bytes as a dotted-quad string.
func formatIPv4(b []byte) string {
	return net.IPv4(b[0], b[1], b[2], b[3]).String()
}

// TagName returns a human-readable name for a TLV tag.
func TagName(tag byte) string {
	switch tag {
	case TagHWAddr:
		return "HWAddr"
	case TagMACIPPair:
		return "MACIPPair"
	case TagFWVersion:
		return "FWVersion"
	case TagAddrEntry:
		return "AddrEntry"
	case TagMACAddr:
		return "MACAddr"
	case TagUptime:
		return "Uptime"
	case TagHostname:
		return "Hostname"
	case TagPlatform:
		return "Platform"
	case TagModel:
		return "Model"
	default:
		return fmt.Sprintf("Reserved(0x%02x)", tag)
	}
}
