package protocol

import (
	"encoding/binary"
	"strconv"
)

// Decode parses a raw discovery datagram into an Announcement.
//
// It returns nil when the buffer is too short to carry the fixed header;
// garbage on the wire is expected (own broadcast echo, unrelated hosts on
// the same port) and is not an error. Once the header parses,
// SignatureVersion is always populated from the version byte.
//
// TLV entries are consumed until the declared payload length runs out. An
// entry whose value overruns the buffer stops the walk; facts extracted up
// to that point are kept. Reserved tags are consumed and discarded so that
// packets from newer firmware still decode.
func Decode(data []byte) *Announcement {
	if len(data) < HeaderSize {
		return nil
	}

	ann := &Announcement{
		SignatureVersion: strconv.Itoa(int(data[0])),
	}

	end := HeaderSize + int(binary.BigEndian.Uint16(data[2:4]))
	if end > len(data) {
		end = len(data)
	}

	for off := HeaderSize; off+TLVHeadSize <= end; {
		tag := data[off]
		length := int(binary.BigEndian.Uint16(data[off+1 : off+3]))
		off += TLVHeadSize
		if off+length > end {
			// Truncated entry: keep whatever decoded so far.
			break
		}
		ann.setField(tag, data[off:off+length])
		off += length
	}

	return ann
}

// setField applies one TLV value to the announcement. Values with the wrong
// size for a fixed-width tag are discarded like reserved tags.
func (a *Announcement) setField(tag byte, value []byte) {
	switch tag {
	case TagHWAddr:
		if len(value) == 6 {
			a.HWAddr = formatMAC(value)
		}
	case TagMACIPPair:
		if len(value) == 10 {
			a.IPInfo = append(a.IPInfo, formatMAC(value[:6])+";"+formatIPv4(value[6:]))
		}
	case TagFWVersion:
		a.FWVersion = string(value)
	case TagAddrEntry:
		if len(value) == 4 {
			a.AddrEntry = formatIPv4(value)
		}
	case TagMACAddr:
		if len(value) == 6 {
			a.MACAddress = formatMAC(value)
		}
	case TagUptime:
		if len(value) == 4 {
			uptime := binary.BigEndian.Uint32(value)
			a.Uptime = &uptime
		}
	case TagHostname:
		a.Hostname = string(value)
	case TagPlatform:
		a.Platform = string(value)
	case TagModel:
		a.Model = string(value)
	}
}
