package protocol

import "encoding/binary"

// RequestPayload returns the fixed discovery request: a bare v1 header with
// the discover command and an empty payload. Every scan sends this exact
// byte sequence; devices answer with a TLV-laden response on the same port.
func RequestPayload() []byte {
	return []byte{Version, CmdDiscover, 0x00, 0x00}
}

// Builder assembles a discovery packet from TLV entries. Devices build
// their responses this way; here it backs the request payload and lets
// tests produce well-formed (or deliberately truncated) packets.
type Builder struct {
	version byte
	cmd     byte
	payload []byte
}

// NewBuilder starts a packet with the given version and command bytes.
func NewBuilder(version, cmd byte) *Builder {
	return &Builder{version: version, cmd: cmd}
}

// AddTLV appends one tag/length/value entry.
func (b *Builder) AddTLV(tag byte, value []byte) *Builder {
	b.payload = append(b.payload, tag)
	b.payload = binary.BigEndian.AppendUint16(b.payload, uint16(len(value)))
	b.payload = append(b.payload, value...)
	return b
}

// AddString appends a string-valued entry.
func (b *Builder) AddString(tag byte, value string) *Builder {
	return b.AddTLV(tag, []byte(value))
}

// AddUint32 appends a 4-byte big-endian entry.
func (b *Builder) AddUint32(tag byte, value uint32) *Builder {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], value)
	return b.AddTLV(tag, buf[:])
}

// Bytes renders the packet: header with the accumulated payload length,
// then the TLV entries.
func (b *Builder) Bytes() []byte {
	out := make([]byte, 0, HeaderSize+len(b.payload))
	out = append(out, b.version, b.cmd)
	out = binary.BigEndian.AppendUint16(out, uint16(len(b.payload)))
	return append(out, b.payload...)
}
