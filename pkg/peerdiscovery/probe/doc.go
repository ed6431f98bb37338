// Package probe decides whether a single IPv4 host is alive.
//
// Two strategies are available:
//   - KindConnect: a non-blocking TCP connect to one port. A completed
//     handshake or an active refusal (RST) both prove a host is there.
//   - KindICMPEcho: one ICMP echo request. The host is up when a datagram
//     comes back from the probed address before the timeout.
//
// Example usage:
//
//	p, err := probe.New(probe.KindConnect, probe.Options{Port: 80, Timeout: 10 * time.Millisecond})
//	if err != nil {
//		return err
//	}
//	outcome := p.Probe(ctx, netip.MustParseAddr("192.168.1.1"))
//
// Privilege Requirements:
// - Raw ICMP sockets require root or CAP_NET_RAW on Linux
// - Options.Unprivileged switches to datagram ICMP sockets, which Linux allows
//   for groups listed in net.ipv4.ping_group_range; macOS always uses them
//
// Limitations:
// - A timeout is reported as StatusDown, never as an error
// - Filtered ports look exactly like absent hosts to KindConnect
package probe
