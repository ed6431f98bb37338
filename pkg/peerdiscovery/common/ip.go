package common

import (
	"encoding/binary"
	"net/netip"
)

// AddrToUint32 returns the numeric value of an IPv4 address, most significant
// octet first. Non-IPv4 addresses map to 0.
func AddrToUint32(addr netip.Addr) uint32 {
	if !addr.Is4() {
		return 0
	}
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:])
}

// Uint32ToAddr is the inverse of AddrToUint32.
func Uint32ToAddr(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}

// IsNetworkOrBroadcast checks if ip is the network or the all-ones broadcast
// address of the subnet local/netmask.
func IsNetworkOrBroadcast(ip, local, netmask netip.Addr) bool {
	if !ip.Is4() || !local.Is4() || !netmask.Is4() {
		return false
	}
	v, mask := AddrToUint32(ip), AddrToUint32(netmask)
	network := AddrToUint32(local) & mask
	return v == network || v == network|^mask
}
