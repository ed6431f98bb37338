package common

import (
	"context"
	"fmt"
	"net/netip"

	sliceutil "github.com/projectdiscovery/utils/slice"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// interface flag names as reported by gopsutil
const (
	flagUp        = "up"
	flagBroadcast = "broadcast"
	flagLoopback  = "loopback"
)

// FindLiveDevice returns the first interface that is up, not a loopback and
// carries an IPv4 address. If name is not empty only the interface with that
// name is considered.
//
// ErrNoDevice is returned when nothing qualifies.
func FindLiveDevice(ctx context.Context, name string) (*Device, error) {
	interfaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}

	return selectDevice(interfaces, name)
}

// selectDevice picks the device from an interface listing, in listing order.
func selectDevice(interfaces []psnet.InterfaceStat, name string) (*Device, error) {
	for _, iface := range interfaces {
		// Skip loopback and down interfaces
		if sliceutil.Contains(iface.Flags, flagLoopback) {
			continue
		}
		if !sliceutil.Contains(iface.Flags, flagUp) {
			continue
		}
		if name != "" && iface.Name != name {
			continue
		}

		prefix, ok := firstIPv4Prefix(iface.Addrs)
		if !ok {
			continue
		}

		return NewDevice(iface.Name, prefix, sliceutil.Contains(iface.Flags, flagBroadcast))
	}

	if name != "" {
		return nil, fmt.Errorf("%w: no live IPv4 interface named %q", ErrNoDevice, name)
	}
	return nil, ErrNoDevice
}

// firstIPv4Prefix returns the first IPv4 address of an interface together
// with its prefix length. gopsutil reports addresses in CIDR notation.
func firstIPv4Prefix(addrs psnet.InterfaceAddrList) (netip.Prefix, bool) {
	for _, addr := range addrs {
		prefix, err := netip.ParsePrefix(addr.Addr)
		if err != nil {
			continue
		}
		if !prefix.Addr().Is4() && !prefix.Addr().Is4In6() {
			continue
		}
		if prefix.Addr().Is4In6() {
			bits := prefix.Bits() - 96
			if bits < 0 {
				continue
			}
			prefix = netip.PrefixFrom(prefix.Addr().Unmap(), bits)
		}
		return prefix, true
	}
	return netip.Prefix{}, false
}
