package common

import (
	"errors"
	"fmt"
	"net/netip"
)

var (
	// ErrNoDevice is returned when no interface qualifies for scanning. It is
	// a terminal condition, not an I/O failure.
	ErrNoDevice = errors.New("no suitable network device found")
	// ErrInvalidDevice is returned by Validate for incomplete descriptors.
	ErrInvalidDevice = errors.New("invalid device")
)

// Device describes the IPv4 interface a scan runs on.
type Device struct {
	Name    string
	Local   netip.Addr
	Netmask netip.Addr
	// Broadcast is the zero Addr when the interface has no broadcast capability.
	Broadcast netip.Addr
}

// NewDevice builds a Device from an interface address prefix. When broadcast
// is set the directed broadcast address of the prefix is recorded.
func NewDevice(name string, prefix netip.Prefix, broadcast bool) (*Device, error) {
	if !prefix.IsValid() || !prefix.Addr().Is4() {
		return nil, fmt.Errorf("%w: %s is not an IPv4 prefix", ErrInvalidDevice, prefix)
	}

	mask := ^uint32(0)
	if bits := prefix.Bits(); bits < 32 {
		mask = ^(^uint32(0) >> bits)
	}

	dev := &Device{
		Name:    name,
		Local:   prefix.Addr(),
		Netmask: Uint32ToAddr(mask),
	}
	if broadcast {
		dev.Broadcast = Uint32ToAddr(AddrToUint32(dev.Local) | ^mask)
	}
	return dev, nil
}

// HasBroadcast reports whether the interface advertises a broadcast address.
func (d *Device) HasBroadcast() bool {
	return d.Broadcast.IsValid()
}

// Validate checks that Local and Netmask are present IPv4 addresses and that
// Broadcast, when set, is IPv4 as well.
func (d *Device) Validate() error {
	switch {
	case d == nil:
		return fmt.Errorf("%w: nil device", ErrInvalidDevice)
	case !d.Local.Is4():
		return fmt.Errorf("%w: local address %v is not IPv4", ErrInvalidDevice, d.Local)
	case !d.Netmask.Is4():
		return fmt.Errorf("%w: netmask %v is not IPv4", ErrInvalidDevice, d.Netmask)
	case d.Broadcast.IsValid() && !d.Broadcast.Is4():
		return fmt.Errorf("%w: broadcast address %v is not IPv4", ErrInvalidDevice, d.Broadcast)
	}
	return nil
}

// Prefix returns the subnet the device belongs to. Non-contiguous masks are
// reported with the length of their leading ones.
func (d *Device) Prefix() netip.Prefix {
	mask := AddrToUint32(d.Netmask)
	bits := 0
	for mask&0x80000000 != 0 {
		bits++
		mask <<= 1
	}
	p, _ := d.Local.Prefix(bits)
	return p
}

func (d *Device) String() string {
	if d.HasBroadcast() {
		return fmt.Sprintf("%s (%s netmask %s broadcast %s)", d.Name, d.Local, d.Netmask, d.Broadcast)
	}
	return fmt.Sprintf("%s (%s netmask %s)", d.Name, d.Local, d.Netmask)
}
