package scanlog

import (
	"time"

	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/probe"
	"github.com/rs/xid"
)

// ScanContext contains metadata about the scan execution
type ScanContext struct {
	ScanID    string
	Device    string
	Probe     probe.Kind
	Port      uint16
	StartTime time.Time
}

// NewScanContext creates a new scan context with a fresh scan id
func NewScanContext(device string, kind probe.Kind, port uint16) *ScanContext {
	sc := &ScanContext{
		ScanID:    xid.New().String(),
		Device:    device,
		Probe:     kind,
		StartTime: time.Now(),
	}
	// the port means nothing to echo probes
	if kind == probe.KindConnect {
		sc.Port = port
	}
	return sc
}

// Elapsed returns the time since the scan started
func (sc *ScanContext) Elapsed() time.Duration {
	return time.Since(sc.StartTime)
}
