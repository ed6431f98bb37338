package scanlog

import (
	"net/netip"
	"time"

	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/scanner"
	"github.com/projectdiscovery/lanscanner/pkg/types"
)

// UpEntry builds the entry for a host reported up
func UpEntry(sc *ScanContext, host scanner.Host) types.HostEntry {
	entry := newEntry(sc, host.Addr, types.StatusUp)
	if host.Role != scanner.RoleRemote {
		entry.Role = host.Role.String()
	}
	return entry
}

// DownEntry builds the entry for a host that did not answer
func DownEntry(sc *ScanContext, addr netip.Addr) types.HostEntry {
	return newEntry(sc, addr, types.StatusDown)
}

// ErrorEntry builds the entry for a probe that failed
func ErrorEntry(sc *ScanContext, addr netip.Addr, err error) types.HostEntry {
	entry := newEntry(sc, addr, types.StatusError)
	if err != nil {
		entry.SetError(err.Error())
	} else {
		entry.SetError("unknown error")
	}
	return entry
}

func newEntry(sc *ScanContext, addr netip.Addr, status string) types.HostEntry {
	entry := types.HostEntry{
		ScanID: sc.ScanID,
		Device: sc.Device,
		IP:     addr.String(),
		Status: status,
		Probe:  sc.Probe.String(),
		Port:   sc.Port,
	}
	entry.SetTimestamp(time.Now())
	return entry
}
