package packets

import (
	"encoding/binary"

	"golang.org/x/net/ipv4"
)

// EchoHeaderLen is the size of an ICMP echo header: type, code, checksum,
// identifier and sequence.
const EchoHeaderLen = 8

// BuildEchoRequest assembles an ICMP Echo Request datagram carrying payload.
// All multi-byte header fields are big-endian.
func BuildEchoRequest(id, seq uint16, payload []byte) []byte {
	dgram := make([]byte, EchoHeaderLen+len(payload))

	dgram[0] = byte(ipv4.ICMPTypeEcho)
	dgram[1] = 0
	// checksum placeholder stays zero until the sum is computed
	binary.BigEndian.PutUint16(dgram[4:6], id)
	binary.BigEndian.PutUint16(dgram[6:8], seq)
	copy(dgram[EchoHeaderLen:], payload)

	binary.BigEndian.PutUint16(dgram[2:4], Checksum(dgram))

	return dgram
}
