package scanner

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/common"
)

// Range is an inclusive span of IPv4 addresses in host numeric order.
type Range struct {
	Start uint32
	End   uint32
}

// RangeOf returns the subnet span of local under netmask, network and
// broadcast addresses included.
func RangeOf(local, netmask netip.Addr) Range {
	mask := common.AddrToUint32(netmask)
	start := common.AddrToUint32(local) & mask
	return Range{Start: start, End: start | ^mask}
}

// Size returns the number of addresses in r. A /0 holds 2^32 of them.
func (r Range) Size() uint64 {
	return uint64(r.End-r.Start) + 1
}

// Contains reports whether addr falls inside r.
func (r Range) Contains(addr netip.Addr) bool {
	if !addr.Is4() {
		return false
	}
	v := common.AddrToUint32(addr)
	return v >= r.Start && v <= r.End
}

// Each calls fn for every address of r in ascending order until the range is
// exhausted or ctx is done, and returns how many addresses were visited.
func (r Range) Each(ctx context.Context, fn func(netip.Addr)) uint64 {
	var visited uint64
	for cur := r.Start; ; cur++ {
		if ctx.Err() != nil {
			break
		}
		fn(common.Uint32ToAddr(cur))
		visited++
		// compared before the increment so End == 0xFFFFFFFF cannot wrap
		if cur == r.End {
			break
		}
	}
	return visited
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", common.Uint32ToAddr(r.Start), common.Uint32ToAddr(r.End))
}
