package probe

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/sockutil"
)

var (
	// ErrInterrupted marks an outcome cut short by context cancellation. It is
	// not a fault and callers are expected to drop such outcomes silently.
	ErrInterrupted = sockutil.ErrInterrupted
	// ErrUnknownKind is returned by New and ParseKind for unsupported kinds.
	ErrUnknownKind = errors.New("unknown probe kind")
)

// Kind selects the probing strategy.
type Kind uint8

const (
	KindConnect Kind = iota + 1
	KindICMPEcho
)

func (k Kind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindICMPEcho:
		return "icmp-echo"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind accepts the single letter scan types ("C", "I") as well as the
// names returned by Kind.String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "connect":
		return KindConnect, nil
	case "i", "icmp", "icmp-echo":
		return KindICMPEcho, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Status is the verdict of a single probe.
type Status uint8

const (
	StatusUp Status = iota + 1
	StatusDown
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUp:
		return "up"
	case StatusDown:
		return "down"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is what a probe reports. Err is set only for StatusError.
type Outcome struct {
	Status Status
	Err    error
}

// Interrupted reports whether the outcome was caused by cancellation.
func (o Outcome) Interrupted() bool {
	return o.Status == StatusError && errors.Is(o.Err, ErrInterrupted)
}

// ProbeError describes a failed probe operation against a target.
type ProbeError struct {
	Op     string
	Target netip.Addr
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

var (
	upOutcome   = Outcome{Status: StatusUp}
	downOutcome = Outcome{Status: StatusDown}
)

func failed(op string, target netip.Addr, err error) Outcome {
	return Outcome{Status: StatusError, Err: &ProbeError{Op: op, Target: target, Err: err}}
}

// interrupted returns a failed outcome when ctx is already done.
func interrupted(ctx context.Context, op string, target netip.Addr) (Outcome, bool) {
	if err := ctx.Err(); err != nil {
		return failed(op, target, fmt.Errorf("%w: %w", ErrInterrupted, err)), true
	}
	return Outcome{}, false
}

// Options configures a Prober.
type Options struct {
	// Port is the TCP port used by KindConnect.
	Port uint16
	// Timeout bounds the wait for a connect to complete or a reply to arrive.
	Timeout time.Duration
	// Unprivileged makes KindICMPEcho use datagram ICMP sockets.
	Unprivileged bool
}

// Prober probes one host at a time. The set of implementations is closed;
// use New to obtain one.
type Prober interface {
	// Probe checks target and reports its status. Targets are never the
	// local or broadcast address of the scanned device.
	Probe(ctx context.Context, target netip.Addr) Outcome
	// Kind returns the strategy implemented by the prober.
	Kind() Kind

	sealed()
}

// New returns the prober for kind.
func New(kind Kind, opts Options) (Prober, error) {
	switch kind {
	case KindConnect:
		return &connectProber{port: opts.Port, timeout: opts.Timeout}, nil
	case KindICMPEcho:
		return newEchoProber(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

type connectProber struct {
	port    uint16
	timeout time.Duration
}

func (*connectProber) Kind() Kind { return KindConnect }
func (*connectProber) sealed()    {}
