package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestRequestPayload(t *testing.T) {
	want := []byte{0x01, 0x00, 0x00, 0x00}
	if got := RequestPayload(); !bytes.Equal(got, want) {
		t.Errorf("RequestPayload() = %x, want %x", got, want)
	}
}

func TestRequestPayloadIsFresh(t *testing.T) {
	// Callers hand the payload to the network layer; mutating it must not
	// corrupt later scans.
	first := RequestPayload()
	first[0] = 0xff
	if got := RequestPayload(); got[0] != 0x01 {
		t.Errorf("RequestPayload shares state between calls: %x", got)
	}
}

func TestBuilderHeader(t *testing.T) {
	pkt := NewBuilder(Version, CmdDiscover).
		AddString(TagHostname, "Gate").
		AddUint32(TagUptime, 1304112).
		Bytes()

	if pkt[0] != Version || pkt[1] != CmdDiscover {
		t.Errorf("header = %x %x, want %x %x", pkt[0], pkt[1], Version, CmdDiscover)
	}
	declared := int(binary.BigEndian.Uint16(pkt[2:4]))
	if declared != len(pkt)-HeaderSize {
		t.Errorf("declared length = %d, want %d", declared, len(pkt)-HeaderSize)
	}
}

func TestTagName(t *testing.T) {
	tests := []struct {
		tag  byte
		want string
	}{
		{TagHWAddr, "HWAddr"},
		{TagMACIPPair, "MACIPPair"},
		{TagUptime, "Uptime"},
		{TagModel, "Model"},
		{0x17, "Reserved(0x17)"},
	}
	for _, tt := range tests {
		if got := TagName(tt.tag); got != tt.want {
			t.Errorf("TagName(0x%02x) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestBuilderDecodeRoundTrip(t *testing.T) {
	pkt := NewBuilder(Version, CmdDiscover).
		AddTLV(TagHWAddr, []byte{0xe0, 0x63, 0xda, 0x00, 0x5e, 0x08}).
		AddTLV(TagMACIPPair, []byte{0xe0, 0x63, 0xda, 0x00, 0x5e, 0x08, 192, 168, 212, 1}).
		AddTLV(TagAddrEntry, []byte{192, 168, 212, 1}).
		AddString(TagFWVersion, "UVC.S5L.v4.46.18.67").
		AddUint32(TagUptime, 42).
		AddString(TagHostname, "Gate").
		AddString(TagPlatform, "UVC G4 Pro").
		AddString(TagModel, "G4 Pro").
		Bytes()

	ann := Decode(pkt)
	if ann == nil {
		t.Fatal("Decode() = nil")
	}
	if ann.HWAddr != "e0:63:da:00:5e:08" {
		t.Errorf("HWAddr = %q", ann.HWAddr)
	}
	if len(ann.IPInfo) != 1 || ann.IPInfo[0] != "e0:63:da:00:5e:08;192.168.212.1" {
		t.Errorf("IPInfo = %v", ann.IPInfo)
	}
	if ann.AddrEntry != "192.168.212.1" {
		t.Errorf("AddrEntry = %q", ann.AddrEntry)
	}
	if ann.Uptime == nil || *ann.Uptime != 42 {
		t.Errorf("Uptime = %v, want 42", ann.Uptime)
	}
	if ann.Model != "G4 Pro" {
		t.Errorf("Model = %q", ann.Model)
	}
}
