package probe

import (
	"os"
	"sync/atomic"
	"time"

	osutils "github.com/projectdiscovery/utils/os"
)

// echoPayload is the body carried by every echo request.
var echoPayload = []byte("A")

type echoProber struct {
	timeout time.Duration
	// datagram selects SOCK_DGRAM ICMP sockets instead of SOCK_RAW
	datagram bool
	id       uint16
	seq      atomic.Uint32
}

func newEchoProber(opts Options) *echoProber {
	return &echoProber{
		timeout:  opts.Timeout,
		datagram: opts.Unprivileged || osutils.IsOSX(),
		id:       uint16(os.Getpid() & 0xffff),
	}
}

func (*echoProber) Kind() Kind { return KindICMPEcho }
func (*echoProber) sealed()    {}

func (p *echoProber) nextSeq() uint16 {
	return uint16(p.seq.Add(1))
}
