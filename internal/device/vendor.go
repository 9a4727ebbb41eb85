package device

import (
	"net"
	"sync"

	"github.com/klauspost/oui"
)

var (
	ouiDB     oui.OuiDB
	ouiDBOnce sync.Once
)

// vendorDB lazily loads the embedded IEEE OUI database. A load failure
// disables lookups rather than failing a scan.
func vendorDB() oui.OuiDB {
	ouiDBOnce.Do(func() {
		db, err := oui.OpenStaticFile("")
		if err != nil {
			return
		}
		ouiDB = db
	})
	return ouiDB
}

// LookupVendor resolves a MAC address to its registered manufacturer.
// Returns the empty string for malformed addresses, unknown prefixes, or
// when the database is unavailable.
func LookupVendor(mac string) string {
	db := vendorDB()
	if db == nil {
		return ""
	}
	normalized := FormatMAC(mac)
	if normalized == "" {
		return ""
	}
	hw, err := net.ParseMAC(normalized)
	if err != nil {
		return ""
	}
	entry, err := db.Query(hw.String())
	if err != nil || entry == nil {
		return ""
	}
	return entry.Manufacturer
}

// EnrichVendor fills the record's Vendor field from its hardware address.
// No-op when the MAC is absent or the prefix is unregistered.
func (d *Device) EnrichVendor() {
	if d.Vendor != "" || d.HWAddr == "" {
		return
	}
	d.Vendor = LookupVendor(d.HWAddr)
}
