package scanner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/common"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/probe"
)

var (
	ErrNilDevice      = errors.New("nil device")
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrAlreadyRun is returned by Run on a scanner that is running or done.
	ErrAlreadyRun = errors.New("scanner already run")
	// ErrUnknownStatus is reported through OnError for outcomes without a
	// known status.
	ErrUnknownStatus = errors.New("unknown probe status")
)

const (
	DefaultPort    = 80
	DefaultTimeout = 10 * time.Millisecond
)

// Options configures a Scanner. They are fixed once the scanner is built.
type Options struct {
	Kind probe.Kind
	// Port is the TCP port for connect probes. 0 picks a random port once.
	Port uint16
	// Timeout bounds each probe. 0 means DefaultTimeout.
	Timeout time.Duration
	// Unprivileged uses datagram ICMP sockets for echo probes.
	Unprivileged bool
}

// DefaultOptions returns a connect scan of port 80 with a 10ms timeout.
func DefaultOptions() *Options {
	return &Options{
		Kind:    probe.KindConnect,
		Port:    DefaultPort,
		Timeout: DefaultTimeout,
	}
}

// State is the lifecycle stage of a Scanner.
type State uint32

const (
	StateIdle State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Role tells why a host was reported up.
type Role uint8

const (
	// RoleRemote hosts answered a probe.
	RoleRemote Role = iota
	// RoleSelf is the local address of the scanned device.
	RoleSelf
	// RoleBroadcast is the broadcast address of the scanned device.
	RoleBroadcast
)

func (r Role) String() string {
	switch r {
	case RoleSelf:
		return "self"
	case RoleBroadcast:
		return "broadcast"
	default:
		return "remote"
	}
}

// Host is an address found up.
type Host struct {
	Addr netip.Addr
	Role Role
}

// Handlers receive scan results. Every field is optional.
type Handlers struct {
	OnUp    func(Host)
	OnDown  func(netip.Addr)
	OnError func(netip.Addr, error)
}

// Scanner probes every address of a device's subnet.
type Scanner struct {
	device  common.Device
	prober  probe.Prober
	port    uint16
	timeout time.Duration
	rng     Range
	state   atomic.Uint32
}

// New validates dev and opts and builds a Scanner. A nil opts selects
// DefaultOptions.
func New(dev *common.Device, opts *Options) (*Scanner, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if err := dev.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimeout, opts.Timeout)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	port := opts.Port
	if port == 0 && opts.Kind == probe.KindConnect {
		port = uint16(rand.IntN(65535))
	}

	prober, err := probe.New(opts.Kind, probe.Options{
		Port:         port,
		Timeout:      timeout,
		Unprivileged: opts.Unprivileged,
	})
	if err != nil {
		return nil, err
	}
	return newWithProber(dev, prober, port, timeout), nil
}

func newWithProber(dev *common.Device, prober probe.Prober, port uint16, timeout time.Duration) *Scanner {
	return &Scanner{
		device:  *dev,
		prober:  prober,
		port:    port,
		timeout: timeout,
		rng:     RangeOf(dev.Local, dev.Netmask),
	}
}

// Range returns the addresses the scanner covers.
func (s *Scanner) Range() Range { return s.rng }

// Port returns the TCP port probed by connect scans.
func (s *Scanner) Port() uint16 { return s.port }

// Timeout returns the per-probe timeout.
func (s *Scanner) Timeout() time.Duration { return s.timeout }

// Device returns a copy of the scanned device.
func (s *Scanner) Device() common.Device { return s.device }

// Kind returns the probing strategy in use.
func (s *Scanner) Kind() probe.Kind { return s.prober.Kind() }

func (s *Scanner) State() State { return State(s.state.Load()) }

// Run scans the whole range, calling h for every address, and returns once
// the range is exhausted or ctx is done. Per-host errors never stop the scan.
// Cancellation is not reported as an error.
func (s *Scanner) Run(ctx context.Context, h Handlers) error {
	if !s.state.CompareAndSwap(uint32(StateIdle), uint32(StateRunning)) {
		return ErrAlreadyRun
	}
	defer s.state.Store(uint32(StateDone))

	gologger.Debug().Msgf("Scanning %s (%d addresses) on %s with %s probes", s.rng, s.rng.Size(), s.device.Name, s.prober.Kind())

	start := time.Now()
	visited := s.rng.Each(ctx, func(addr netip.Addr) {
		s.visit(ctx, addr, h)
	})

	if ctx.Err() != nil {
		gologger.Debug().Msgf("Scan interrupted after %d of %d addresses", visited, s.rng.Size())
		return nil
	}
	gologger.Debug().Msgf("Scan of %s finished in %s", s.rng, time.Since(start))
	return nil
}

func (s *Scanner) visit(ctx context.Context, addr netip.Addr, h Handlers) {
	switch {
	case addr == s.device.Local:
		h.up(Host{Addr: addr, Role: RoleSelf})
		return
	case s.device.HasBroadcast() && addr == s.device.Broadcast:
		h.up(Host{Addr: addr, Role: RoleBroadcast})
		return
	}

	outcome := s.prober.Probe(ctx, addr)
	switch outcome.Status {
	case probe.StatusUp:
		h.up(Host{Addr: addr, Role: RoleRemote})
	case probe.StatusDown:
		if h.OnDown != nil {
			h.OnDown(addr)
		}
	case probe.StatusError:
		if outcome.Interrupted() {
			return
		}
		if h.OnError != nil {
			h.OnError(addr, outcome.Err)
		}
	default:
		if h.OnError != nil {
			h.OnError(addr, fmt.Errorf("%w: %d from %s probe of %s", ErrUnknownStatus, outcome.Status, s.prober.Kind(), addr))
		}
	}
}

func (h Handlers) up(host Host) {
	if h.OnUp != nil {
		h.OnUp(host)
	}
}
