package discovery

import (
	"testing"

	"github.com/bdraco/unifi-discovery/internal/protocol"
)

func TestCollectorCreatesOnFirstContact(t *testing.T) {
	c := NewCollector()

	if c.Get("192.168.212.1") != nil {
		t.Fatal("Get on empty collector returned a record")
	}

	d := c.Apply("192.168.212.1", &protocol.Announcement{Hostname: "Gate", SignatureVersion: "1"})
	if d == nil || d.SourceIP != "192.168.212.1" {
		t.Fatalf("Apply returned %+v", d)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if c.Get("192.168.212.1") != d {
		t.Error("Get returned a different record than Apply")
	}
}

func TestCollectorMergesSameSource(t *testing.T) {
	c := NewCollector()
	c.Apply("192.168.212.1", &protocol.Announcement{Hostname: "Gate"})
	c.Apply("192.168.212.1", &protocol.Announcement{Platform: "UVC G4 Pro"})

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 record for one source", c.Len())
	}
	d := c.Get("192.168.212.1")
	if d.Hostname != "Gate" || d.Platform != "UVC G4 Pro" {
		t.Errorf("merge lost fields: %+v", d)
	}
}

func TestCollectorPreservesFirstSeenOrder(t *testing.T) {
	c := NewCollector()
	c.Apply("192.168.203.1", &protocol.Announcement{})
	c.Apply("192.168.213.252", &protocol.Announcement{})
	c.Apply("192.168.203.1", &protocol.Announcement{Hostname: "later"})

	devices := c.Devices()
	if len(devices) != 2 {
		t.Fatalf("Devices() returned %d records, want 2", len(devices))
	}
	if devices[0].SourceIP != "192.168.203.1" || devices[1].SourceIP != "192.168.213.252" {
		t.Errorf("order = [%s, %s], want first-seen order",
			devices[0].SourceIP, devices[1].SourceIP)
	}
}

func TestCollectorEnsure(t *testing.T) {
	c := NewCollector()
	d := c.Ensure("192.0.2.55")
	if d.SourceIP != "192.0.2.55" {
		t.Fatalf("Ensure returned %+v", d)
	}
	if c.Ensure("192.0.2.55") != d {
		t.Error("Ensure created a duplicate record")
	}
}
