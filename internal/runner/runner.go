package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"time"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/gcache"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/arp"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/common"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/probe"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/scanner"
	"github.com/projectdiscovery/lanscanner/pkg/scanlog"
	mapsutil "github.com/projectdiscovery/utils/maps"
)

// result counters
const (
	countUp    = "up"
	countDown  = "down"
	countError = "error"
)

// roleSubnetEdge marks a remote host answering on the network address, or
// on the all-ones address of a device without broadcast.
const roleSubnetEdge = "network"

// Runner contains the internal logic of the program
type Runner struct {
	options *Options
	output  io.Writer
	results *scanlog.Writer
	scanCtx *scanlog.ScanContext
	device  *common.Device
	counts  *mapsutil.SyncLockMap[string, int]
	// lookupMAC is set when mac addresses were requested
	lookupMAC func(netip.Addr) string
	// probe errors already reported at error level
	seenErrors gcache.Cache[string, struct{}]
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	if options == nil {
		return nil, errors.New("nil options")
	}
	if options.kind == 0 {
		for _, warning := range options.validate() {
			gologger.Warning().Msg(warning)
		}
	}
	if au == nil {
		au = aurora.New(aurora.WithColors(!options.NoColor))
	}

	return &Runner{
		options: options,
		output:  os.Stdout,
		counts:  mapsutil.NewSyncLockMap[string, int](),
		seenErrors: gcache.New[string, struct{}](256).
			LRU().
			Expiration(time.Minute).
			Build(),
	}, nil
}

// Run finds the device to scan and scans its subnet
func (r *Runner) Run(ctx context.Context) error {
	dev, err := common.FindLiveDevice(ctx, r.options.Device)
	if err != nil {
		return err
	}
	gologger.Verbose().Msgf("Using device %s", dev)

	return r.scan(ctx, dev)
}

func (r *Runner) scan(ctx context.Context, dev *common.Device) error {
	s, err := scanner.New(dev, r.options.scannerOptions())
	if err != nil {
		return fmt.Errorf("could not create scanner: %w", err)
	}

	r.device = dev
	r.scanCtx = scanlog.NewScanContext(dev.Name, s.Kind(), s.Port())
	if r.options.JSON {
		r.results = scanlog.NewWriter(r.output)
	}
	if r.options.MAC {
		r.lookupMAC = arpLookup(ctx, dev.Name)
	}

	gologger.Info().Msgf("Scanning %s on %s using %s, timeout %s (scan id %s)", dev.Prefix(), dev.Name, describeProbe(s), s.Timeout(), r.scanCtx.ScanID)

	err = s.Run(ctx, scanner.Handlers{
		OnUp:    r.onUp,
		OnDown:  r.onDown,
		OnError: r.onError,
	})
	if r.results != nil {
		r.results.Close()
	}
	if err != nil {
		return err
	}

	r.summary(ctx.Err() != nil)
	return nil
}

func describeProbe(s *scanner.Scanner) string {
	if s.Kind() == probe.KindConnect {
		return fmt.Sprintf("%s probes to port %d", s.Kind(), s.Port())
	}
	return fmt.Sprintf("%s probes", s.Kind())
}

// arpLookup resolves addresses through the arp cache of device. The cache is
// re-read on every call as the scan itself keeps filling it.
func arpLookup(ctx context.Context, device string) func(netip.Addr) string {
	return func(addr netip.Addr) string {
		table, err := arp.ReadDeviceTable(ctx, device)
		if err != nil {
			gologger.Debug().Msgf("Could not read arp cache: %s", err)
			return ""
		}
		if mac, ok := table.Lookup(addr); ok {
			return mac.String()
		}
		return ""
	}
}

func (r *Runner) onUp(host scanner.Host) {
	r.count(countUp)

	var mac string
	if r.lookupMAC != nil && host.Role == scanner.RoleRemote {
		mac = r.lookupMAC(host.Addr)
	}

	edge := r.isSubnetEdge(host)

	if r.results != nil {
		entry := scanlog.UpEntry(r.scanCtx, host)
		entry.MAC = mac
		if edge {
			entry.Role = roleSubnetEdge
		}
		r.results.Add(entry)
		return
	}
	gologger.Silent().Msg(formatUp(host, mac, edge))
}

// isSubnetEdge reports whether a remote host sits on the network address or
// the all-ones address of the scanned subnet. /31 and /32 have neither.
func (r *Runner) isSubnetEdge(host scanner.Host) bool {
	if r.device == nil || host.Role != scanner.RoleRemote {
		return false
	}
	if r.device.Prefix().Bits() >= 31 {
		return false
	}
	return common.IsNetworkOrBroadcast(host.Addr, r.device.Local, r.device.Netmask)
}

func (r *Runner) onDown(addr netip.Addr) {
	r.count(countDown)
	if !r.options.ShowDown {
		return
	}
	if r.results != nil {
		r.results.Add(scanlog.DownEntry(r.scanCtx, addr))
		return
	}
	gologger.Silent().Msg(formatDown(addr))
}

func (r *Runner) onError(addr netip.Addr, err error) {
	r.count(countError)
	if r.results != nil {
		r.results.Add(scanlog.ErrorEntry(r.scanCtx, addr, err))
	}

	// the same failure tends to repeat for every host (no route, no privilege)
	key := errorKey(err)
	if r.seenErrors.Has(key) {
		gologger.Verbose().Msgf("Probe of remote host failed: %s", err)
		return
	}
	_ = r.seenErrors.Set(key, struct{}{})
	gologger.Error().Msgf("Probe of remote host failed: %s", err)
}

func (r *Runner) count(key string) {
	n, _ := r.counts.Get(key)
	_ = r.counts.Set(key, n+1)
}

func (r *Runner) summary(interrupted bool) {
	up, _ := r.counts.Get(countUp)
	down, _ := r.counts.Get(countDown)
	failed, _ := r.counts.Get(countError)

	state := "finished"
	if interrupted {
		state = "interrupted"
	}
	gologger.Info().Msgf("Scan %s %s in %s: %d up, %d down, %d errors", r.scanCtx.ScanID, state, r.scanCtx.Elapsed().Round(time.Millisecond), up, down, failed)
}

func formatUp(host scanner.Host, mac string, edge bool) string {
	switch {
	case host.Role == scanner.RoleSelf:
		return fmt.Sprintf("%s %s", host.Addr, au.Green("[YOU]"))
	case host.Role == scanner.RoleBroadcast:
		return fmt.Sprintf("%s %s", host.Addr, au.Cyan("[BROADCAST]"))
	}

	line := host.Addr.String()
	if edge {
		line = fmt.Sprintf("%s %s", line, au.Magenta("[NETWORK]"))
	}
	if mac != "" {
		line = fmt.Sprintf("%s %s", line, au.Yellow("["+mac+"]"))
	}
	return line
}

func formatDown(addr netip.Addr) string {
	return fmt.Sprintf("%s %s", addr, au.Red("[DOWN]"))
}

// errorKey reduces err to its innermost cause, so failures differing only
// by target share a key.
func errorKey(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// Close releases runner resources
func (r *Runner) Close() {
	if r.results != nil {
		r.results.Close()
	}
	r.seenErrors.Purge()
}
