package protocol

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

// gatePacket is a captured announcement from a UVC G4 Pro camera. It mixes
// known tags with reserved ones (0x17, 0x10, 0x20).
const gatePacket = "\x01\x00\x00\x8e" +
	"\x02\x00\x0a\xe0\x63\xda\x00\x5e\x08\xc0\xa8\xd4\x01" +
	"\x01\x00\x06\xe0\x63\xda\x00\x5e\x08" +
	"\x0a\x00\x04\x00\x13\xe6\x30" +
	"\x0b\x00\x04Gate" +
	"\x0c\x00\x0aUVC G4 Pro" +
	"\x17\x00\x04\x00\x00\x00\x00" +
	"\x03\x00'UVC.S5L.v4.46.18.67.ceacbaa.211202.1017" +
	"\x10\x00\x02\x63\xa5" +
	"\x20\x00$32f695ba-835b-5822-bc54-e290e1789ff1"

// bridgePacket is a captured announcement from a Protect UAP bridge. It
// carries every known tag including the secondary MAC and model.
const bridgePacket = "\x01\x00\x00\xa5" +
	"\x01\x00\x06$ZLu\xba\xe6" +
	"\x02\x00\x0a$ZLu\xba\xe6\xc0\xa8\xd5/" +
	"\x03\x001UFP-UAP-B.MT7622_SOC.v0.4.0.4.340d302.220106.0349" +
	"\x04\x00\x04\xc0\xa8\xd5/" +
	"\x05\x00\x06$ZLu\xba\xe6" +
	"\x0a\x00\x04\x00\x0c\xda/" +
	"\x0b\x00\x11AlexanderTechRoom" +
	"\x0c\x00\x09UFP-UAP-B" +
	"\x10\x00\x02\xa6 " +
	"\x14\x00\x18Unifi-Protect-UAP-Bridge" +
	"\x17\x00\x01\x00"

func uptimePtr(v uint32) *uint32 { return &v }

func TestDecodeGatePacket(t *testing.T) {
	got := Decode([]byte(gatePacket))
	if got == nil {
		t.Fatal("Decode() = nil, want announcement")
	}

	want := &Announcement{
		HWAddr:           "e0:63:da:00:5e:08",
		IPInfo:           []string{"e0:63:da:00:5e:08;192.168.212.1"},
		FWVersion:        "UVC.S5L.v4.46.18.67.ceacbaa.211202.1017",
		Uptime:           uptimePtr(1304112),
		Hostname:         "Gate",
		Platform:         "UVC G4 Pro",
		SignatureVersion: "1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestDecodeBridgePacket(t *testing.T) {
	got := Decode([]byte(bridgePacket))
	if got == nil {
		t.Fatal("Decode() = nil, want announcement")
	}

	want := &Announcement{
		HWAddr:           "24:5a:4c:75:ba:e6",
		IPInfo:           []string{"24:5a:4c:75:ba:e6;192.168.213.47"},
		FWVersion:        "UFP-UAP-B.MT7622_SOC.v0.4.0.4.340d302.220106.0349",
		AddrEntry:        "192.168.213.47",
		MACAddress:       "24:5a:4c:75:ba:e6",
		Uptime:           uptimePtr(842287),
		Hostname:         "AlexanderTechRoom",
		Platform:         "UFP-UAP-B",
		Model:            "Unifi-Protect-UAP-Bridge",
		SignatureVersion: "1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestDecodeNoData(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil buffer", nil},
		{"empty buffer", []byte{}},
		{"one byte", []byte{0x01}},
		{"three bytes", []byte{0x01, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.data); got != nil {
				t.Errorf("Decode(%v) = %+v, want nil", tt.data, got)
			}
		})
	}
}

func TestDecodeRequestPayload(t *testing.T) {
	// Our own broadcast echoes back to the socket. It must decode as a
	// header-only announcement, not an error.
	got := Decode(RequestPayload())
	if got == nil {
		t.Fatal("Decode(request) = nil, want announcement")
	}
	want := &Announcement{SignatureVersion: "1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode(request) = %+v, want %+v", got, want)
	}
}

func TestDecodeTruncatedTLVKeepsEarlierFields(t *testing.T) {
	pkt := NewBuilder(Version, CmdDiscover).
		AddString(TagHostname, "Gate").
		Bytes()
	// Append an entry whose declared value length overruns the buffer.
	pkt = append(pkt, TagFWVersion, 0x40, 0x00, 'U', 'V', 'C')
	pkt[3] += 6 // account for the bogus entry in the declared length

	got := Decode(pkt)
	if got == nil {
		t.Fatal("Decode() = nil, want partial announcement")
	}
	if got.Hostname != "Gate" {
		t.Errorf("Hostname = %q, want %q", got.Hostname, "Gate")
	}
	if got.FWVersion != "" {
		t.Errorf("FWVersion = %q, want empty (truncated entry)", got.FWVersion)
	}
}

func TestDecodeReservedTagsSkipped(t *testing.T) {
	pkt := NewBuilder(Version, CmdDiscover).
		AddTLV(0x42, []byte{0xde, 0xad}).
		AddString(TagPlatform, "UDMPROSE").
		AddTLV(0xff, nil).
		Bytes()

	got := Decode(pkt)
	if got == nil {
		t.Fatal("Decode() = nil")
	}
	if got.Platform != "UDMPROSE" {
		t.Errorf("Platform = %q, want %q", got.Platform, "UDMPROSE")
	}
}

func TestDecodeWrongSizedFixedTag(t *testing.T) {
	pkt := NewBuilder(Version, CmdDiscover).
		AddTLV(TagHWAddr, []byte{0x01, 0x02, 0x03}). // MAC tags carry 6 bytes
		AddString(TagHostname, "Gate").
		Bytes()

	got := Decode(pkt)
	if got == nil {
		t.Fatal("Decode() = nil")
	}
	if got.HWAddr != "" {
		t.Errorf("HWAddr = %q, want empty", got.HWAddr)
	}
	if got.Hostname != "Gate" {
		t.Errorf("Hostname = %q, want %q", got.Hostname, "Gate")
	}
}

func TestDecodeDeclaredLengthBoundsWalk(t *testing.T) {
	pkt := NewBuilder(Version, CmdDiscover).
		AddString(TagHostname, "Gate").
		Bytes()
	// Entries past the declared payload length are ignored.
	extra := NewBuilder(Version, CmdDiscover).AddString(TagPlatform, "UDMPROSE").Bytes()
	pkt = append(pkt, extra[HeaderSize:]...)

	got := Decode(pkt)
	if got == nil {
		t.Fatal("Decode() = nil")
	}
	if got.Hostname != "Gate" {
		t.Errorf("Hostname = %q, want %q", got.Hostname, "Gate")
	}
	if got.Platform != "" {
		t.Errorf("Platform = %q, want empty (past declared length)", got.Platform)
	}
}

func TestDecodeIdempotent(t *testing.T) {
	for _, pkt := range []string{gatePacket, bridgePacket} {
		first := Decode([]byte(pkt))
		second := Decode([]byte(pkt))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Decode not idempotent: %+v != %+v", first, second)
		}
	}
}

// TestDecodeArbitraryBytes feeds the decoder arbitrary garbage. It must
// never panic and must stay idempotent.
func TestDecodeArbitraryBytes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(t, "data")

		first := Decode(data)
		second := Decode(data)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Decode not idempotent for %x", data)
		}
		if len(data) >= HeaderSize && first == nil {
			t.Fatalf("Decode(%x) = nil despite parseable header", data)
		}
	})
}

// TestDecodeGeneratedPackets round-trips builder-generated packets with
// random tag/value sequences through the decoder.
func TestDecodeGeneratedPackets(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewBuilder(Version, CmdDiscover)
		n := rapid.IntRange(0, 8).Draw(t, "entries")
		for i := 0; i < n; i++ {
			tag := rapid.Byte().Draw(t, "tag")
			value := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "value")
			b.AddTLV(tag, value)
		}
		pkt := b.Bytes()
		if len(pkt)-HeaderSize > 0xffff {
			t.Skip("payload exceeds 16-bit length field")
		}

		got := Decode(pkt)
		if got == nil {
			t.Fatalf("Decode returned nil for well-formed packet %x", pkt)
		}
		if got.SignatureVersion != "1" {
			t.Fatalf("SignatureVersion = %q, want %q", got.SignatureVersion, "1")
		}
		if !reflect.DeepEqual(got, Decode(pkt)) {
			t.Fatalf("Decode not idempotent for %x", pkt)
		}
	})
}
