package arp

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/netip"
	"strings"
)

// ErrUnsupported is returned on platforms without a readable ARP cache.
var ErrUnsupported = errors.New("reading the arp cache is not supported on this platform")

// Table maps IPv4 addresses to the hardware addresses the kernel resolved.
type Table map[netip.Addr]net.HardwareAddr

// Lookup returns the cached hardware address of addr.
func (t Table) Lookup(addr netip.Addr) (net.HardwareAddr, bool) {
	mac, ok := t[addr]
	return mac, ok
}

// parseLinuxTable parses /proc/net/arp. When device is not empty only
// entries learnt on that interface are kept.
func parseLinuxTable(r io.Reader, device string) (Table, error) {
	table := make(Table)
	scanner := bufio.NewScanner(r)

	// Skip header line
	if !scanner.Scan() {
		return table, scanner.Err()
	}

	for scanner.Scan() {
		// Format: IP address HW type Flags HW address Mask Device
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}
		if device != "" && fields[5] != device {
			continue
		}
		addEntry(table, fields[0], fields[3])
	}

	return table, scanner.Err()
}

// parseDarwinTable parses the output of `arp -an`:
//
//	? (192.168.1.1) at aa:bb:cc:dd:ee:ff on en0 ifscope [ethernet]
//	? (192.168.1.7) at (incomplete) on en0 ifscope [ethernet]
func parseDarwinTable(r io.Reader, device string) (Table, error) {
	table := make(Table)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()

		// Extract IP address (between parentheses)
		ipStart := strings.Index(line, "(")
		ipEnd := strings.Index(line, ")")
		if ipStart == -1 || ipEnd == -1 || ipStart >= ipEnd {
			continue
		}

		fields := strings.Fields(line[ipEnd+1:])
		// at <mac> on <device> ...
		if len(fields) < 4 || fields[0] != "at" || fields[2] != "on" {
			continue
		}
		if device != "" && fields[3] != device {
			continue
		}
		addEntry(table, line[ipStart+1:ipEnd], padMAC(fields[1]))
	}

	return table, scanner.Err()
}

func addEntry(table Table, ipStr, macStr string) {
	ip, err := netip.ParseAddr(ipStr)
	if err != nil || !ip.Is4() {
		return
	}
	mac, err := net.ParseMAC(macStr)
	if err != nil {
		// incomplete entries
		return
	}
	if isZero(mac) {
		return
	}
	table[ip] = mac
}

// padMAC restores the leading zeros macOS drops from each octet.
func padMAC(s string) string {
	parts := strings.Split(s, ":")
	for i, p := range parts {
		if len(p) == 1 {
			parts[i] = "0" + p
		}
	}
	return strings.Join(parts, ":")
}

func isZero(mac net.HardwareAddr) bool {
	for _, b := range mac {
		if b != 0 {
			return false
		}
	}
	return true
}
