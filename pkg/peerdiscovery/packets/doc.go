// Package packets builds the on-wire datagrams used by the probes.
//
// Only two things live here: the Internet checksum and a minimal ICMP Echo
// Request (RFC 792):
//
//	0               1               2               3
//	+---------------+---------------+-------------------------------+
//	|   type (8)    |   code (0)    |           checksum            |
//	+---------------+---------------+-------------------------------+
//	|          identifier           |           sequence            |
//	+-------------------------------+-------------------------------+
//	|                          payload ...
//
// Example:
//
//	dgram := packets.BuildEchoRequest(uint16(os.Getpid()), 1, []byte("A"))
package packets
