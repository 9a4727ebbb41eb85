package discovery

import (
	"github.com/bdraco/unifi-discovery/internal/device"
	"github.com/bdraco/unifi-discovery/internal/protocol"
)

// Collector owns the in-flight record map during a scan. It is not
// synchronized: exactly one goroutine (the scan loop draining the
// datagram channel) mutates it, which is the whole point of funnelling
// reception through a channel instead of callbacks.
type Collector struct {
	records map[string]*device.Device
	order   []string
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{records: make(map[string]*device.Device)}
}

// Apply merges one decoded announcement into the record for its source
// address, creating the record on first contact. Returns the record.
func (c *Collector) Apply(sourceIP string, ann *protocol.Announcement) *device.Device {
	d := c.Ensure(sourceIP)
	d.Merge(ann)
	return d
}

// Ensure returns the record for an address, creating an empty one if this
// is the first time the address is seen. Used directly for records built
// from HTTP facts alone.
func (c *Collector) Ensure(sourceIP string) *device.Device {
	if d, ok := c.records[sourceIP]; ok {
		return d
	}
	d := device.New(sourceIP)
	c.records[sourceIP] = d
	c.order = append(c.order, sourceIP)
	return d
}

// Get returns the record for an address, or nil.
func (c *Collector) Get(sourceIP string) *device.Device {
	return c.records[sourceIP]
}

// Devices returns the records in the order their source address was first
// observed.
func (c *Collector) Devices() []*device.Device {
	out := make([]*device.Device, 0, len(c.order))
	for _, ip := range c.order {
		out = append(out, c.records[ip])
	}
	return out
}

// Len returns the number of records.
func (c *Collector) Len() int {
	return len(c.records)
}
