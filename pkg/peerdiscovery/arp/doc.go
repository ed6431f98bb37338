// Package arp reads the operating system's IPv4 neighbour (ARP) cache.
//
// Probing a host on the local segment makes the kernel resolve its hardware
// address, so once a host has been found up its MAC address can usually be
// looked up here without sending anything else on the wire.
//
// - Linux: /proc/net/arp
// - macOS: output of `arp -an`
package arp
