// Package protocol implements the UBNT v1 discovery wire format.
//
// Discovery traffic is UDP on port 10001. A packet is a fixed 4-byte header
// (protocol version, command code, 2-byte big-endian payload length)
// followed by tag/length/value entries until the declared payload length is
// consumed:
//
//	+---------+---------+------------+----------------------------+
//	| version | command | length(BE) | TLV entries ...            |
//	+---------+---------+------------+----------------------------+
//	                                  tag(1) len(BE16) value(len)
//
// A scan sends the fixed request (version 1, command 0, empty payload) and
// devices answer with self-describing responses carrying MAC addresses,
// firmware version, hostname, platform, model and uptime.
//
// Decoding is deliberately forgiving: reserved tags are skipped, a
// truncated entry ends the walk without discarding facts already
// extracted, and a buffer too short for the header simply yields nothing.
// Anything can show up on the discovery port, including our own broadcast
// echo.
package protocol
