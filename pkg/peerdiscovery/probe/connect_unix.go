//go:build linux || darwin

package probe

import (
	"context"
	"errors"
	"net/netip"
	"os"

	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/sockutil"
	"golang.org/x/sys/unix"
)

func (p *connectProber) Probe(ctx context.Context, target netip.Addr) Outcome {
	if outcome, done := interrupted(ctx, "connect", target); done {
		return outcome
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return failed("socket", target, os.NewSyscallError("socket", err))
	}
	defer func() {
		_ = sockutil.Close(fd)
	}()

	if err := sockutil.SetNonblock(fd); err != nil {
		return failed("connect", target, err)
	}

	err = unix.Connect(fd, &unix.SockaddrInet4{Port: int(p.port), Addr: target.As4()})
	status, pending := classifyConnect(err)
	switch {
	case status == StatusError:
		return failed("connect", target, os.NewSyscallError("connect", err))
	case !pending:
		if err == nil {
			_ = sockutil.Shutdown(fd)
		}
		return Outcome{Status: status}
	}

	ready, err := sockutil.Wait(ctx, fd, sockutil.Writable, p.timeout)
	if err != nil {
		return failed("connect", target, err)
	}
	if !ready {
		return downOutcome
	}

	code, err := sockutil.SocketError(fd)
	if err != nil {
		return failed("connect", target, err)
	}
	if code == 0 {
		_ = sockutil.Shutdown(fd)
	}
	return Outcome{Status: classifySocketError(code)}
}

// classifyConnect maps the immediate result of a non-blocking connect. When
// pending is true the handshake is in flight and status is meaningless.
func classifyConnect(err error) (status Status, pending bool) {
	switch {
	case err == nil:
		return StatusUp, false
	case errors.Is(err, unix.EINPROGRESS), errors.Is(err, unix.EALREADY), errors.Is(err, unix.EINTR):
		return 0, true
	case errors.Is(err, unix.ECONNREFUSED), errors.Is(err, unix.ECONNRESET):
		// something answered with a RST
		return StatusUp, false
	default:
		return StatusError, false
	}
}

// classifySocketError maps the SO_ERROR of a socket that became writable.
func classifySocketError(code unix.Errno) Status {
	switch code {
	case 0, unix.ECONNREFUSED, unix.ECONNRESET:
		return StatusUp
	default:
		return StatusDown
	}
}
