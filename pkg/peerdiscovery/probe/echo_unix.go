//go:build linux || darwin

package probe

import (
	"context"
	"errors"
	"net/netip"
	"os"

	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/packets"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/sockutil"
	"golang.org/x/sys/unix"
)

// maxDatagram is large enough for any reply on an Ethernet segment.
const maxDatagram = 1500

func (p *echoProber) Probe(ctx context.Context, target netip.Addr) Outcome {
	if outcome, done := interrupted(ctx, "ping", target); done {
		return outcome
	}

	sockType := unix.SOCK_RAW
	if p.datagram {
		sockType = unix.SOCK_DGRAM
	}
	fd, err := unix.Socket(unix.AF_INET, sockType, unix.IPPROTO_ICMP)
	if err != nil {
		return failed("socket", target, os.NewSyscallError("socket", err))
	}
	defer func() {
		_ = sockutil.Close(fd)
	}()

	if err := sockutil.SetNonblock(fd); err != nil {
		return failed("ping", target, err)
	}

	request := packets.BuildEchoRequest(p.id, p.nextSeq(), echoPayload)
	if err := unix.Sendto(fd, request, 0, &unix.SockaddrInet4{Addr: target.As4()}); err != nil {
		return failed("sendto", target, os.NewSyscallError("sendto", err))
	}

	ready, err := sockutil.Wait(ctx, fd, sockutil.Readable, p.timeout)
	if err != nil {
		return failed("ping", target, err)
	}
	if !ready {
		return downOutcome
	}

	code, err := sockutil.SocketError(fd)
	if err != nil {
		return failed("recvfrom", target, err)
	}
	if code != 0 {
		return failed("recvfrom", target, code)
	}

	buf := make([]byte, maxDatagram)
	_, from, err := unix.Recvfrom(fd, buf, 0)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return downOutcome
		}
		return failed("recvfrom", target, os.NewSyscallError("recvfrom", err))
	}
	return Outcome{Status: classifyReply(from, target)}
}

// classifyReply reports StatusUp only when the datagram came from target.
func classifyReply(from unix.Sockaddr, target netip.Addr) Status {
	sa, ok := from.(*unix.SockaddrInet4)
	if !ok || netip.AddrFrom4(sa.Addr) != target {
		return StatusDown
	}
	return StatusUp
}
