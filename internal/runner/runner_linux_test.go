//go:build linux

package runner

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func closedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

func TestScanLoopbackPair(t *testing.T) {
	// every 127/8 address is local on linux, so the peer of the /31 refuses
	r, err := NewRunner(&Options{ScanType: "C", Port: closedPort(t), Timeout: 500, JSON: true})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()

	var out bytes.Buffer
	r.output = &out

	if err := r.scan(context.Background(), mustDevice(t, "127.0.0.2/31")); err != nil {
		t.Fatalf("scan() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d json lines, want 2:\n%s", len(lines), out.String())
	}

	self := gjson.Parse(lines[0])
	if self.Get("ip").String() != "127.0.0.2" || self.Get("role").String() != "self" || self.Get("status").String() != "up" {
		t.Errorf("first line = %s, want 127.0.0.2 self up", lines[0])
	}
	peer := gjson.Parse(lines[1])
	if peer.Get("ip").String() != "127.0.0.3" || peer.Get("status").String() != "up" || peer.Get("role").Exists() {
		t.Errorf("second line = %s, want 127.0.0.3 up", lines[1])
	}
	if self.Get("scan_id").String() != r.scanCtx.ScanID || peer.Get("device").String() != "lo" {
		t.Errorf("scan metadata missing: %s", out.String())
	}

	if n, _ := r.counts.Get(countUp); n != 2 {
		t.Errorf("up count = %d, want 2", n)
	}
}
