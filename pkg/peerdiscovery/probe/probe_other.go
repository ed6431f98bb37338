//go:build !linux && !darwin

package probe

import (
	"context"
	"net/netip"

	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/sockutil"
)

func (p *connectProber) Probe(ctx context.Context, target netip.Addr) Outcome {
	if outcome, done := interrupted(ctx, "connect", target); done {
		return outcome
	}
	return failed("connect", target, sockutil.ErrUnsupported)
}

func (p *echoProber) Probe(ctx context.Context, target netip.Addr) Outcome {
	if outcome, done := interrupted(ctx, "ping", target); done {
		return outcome
	}
	return failed("ping", target, sockutil.ErrUnsupported)
}
