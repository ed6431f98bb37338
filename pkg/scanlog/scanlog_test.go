package scanlog

import (
	"bytes"
	"errors"
	"net/netip"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/probe"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/scanner"
	"github.com/projectdiscovery/lanscanner/pkg/types"
	"github.com/rs/xid"
	"github.com/tidwall/gjson"
)

func TestNewScanContext(t *testing.T) {
	connect := NewScanContext("eth0", probe.KindConnect, 8080)
	if _, err := xid.FromString(connect.ScanID); err != nil {
		t.Errorf("ScanID %q is not an xid: %v", connect.ScanID, err)
	}
	if connect.Port != 8080 {
		t.Errorf("Port = %d, want 8080", connect.Port)
	}

	echo := NewScanContext("eth0", probe.KindICMPEcho, 8080)
	if echo.Port != 0 {
		t.Errorf("Port = %d for an echo scan, want 0", echo.Port)
	}
	if echo.ScanID == connect.ScanID {
		t.Error("two scans share a ScanID")
	}
}

func TestEntries(t *testing.T) {
	sc := NewScanContext("eth0", probe.KindConnect, 80)
	addr := netip.MustParseAddr("10.0.0.5")

	tests := []struct {
		name       string
		entry      types.HostEntry
		wantStatus string
		wantRole   string
		wantError  string
	}{
		{name: "remote up", entry: UpEntry(sc, scanner.Host{Addr: addr, Role: scanner.RoleRemote}), wantStatus: types.StatusUp},
		{name: "self", entry: UpEntry(sc, scanner.Host{Addr: addr, Role: scanner.RoleSelf}), wantStatus: types.StatusUp, wantRole: "self"},
		{name: "broadcast", entry: UpEntry(sc, scanner.Host{Addr: addr, Role: scanner.RoleBroadcast}), wantStatus: types.StatusUp, wantRole: "broadcast"},
		{name: "down", entry: DownEntry(sc, addr), wantStatus: types.StatusDown},
		{
			name:       "error",
			entry:      ErrorEntry(sc, addr, errors.New("connect 10.0.0.5: network is unreachable")),
			wantStatus: types.StatusError,
			wantError:  "connect 10.0.0.5: network is unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.entry.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if tt.entry.IP != "10.0.0.5" || tt.entry.ScanID != sc.ScanID || tt.entry.Probe != "connect" || tt.entry.Port != 80 {
				t.Errorf("entry = %+v, missing scan metadata", tt.entry)
			}
			if tt.entry.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", tt.entry.Status, tt.wantStatus)
			}
			if tt.entry.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", tt.entry.Role, tt.wantRole)
			}
			if tt.wantError != "" && (tt.entry.Error == nil || *tt.entry.Error != tt.wantError) {
				t.Errorf("Error = %v, want %q", tt.entry.Error, tt.wantError)
			}
		})
	}
}

func TestWriteLines(t *testing.T) {
	sc := NewScanContext("eth0", probe.KindICMPEcho, 0)
	entries := []types.HostEntry{
		UpEntry(sc, scanner.Host{Addr: netip.MustParseAddr("10.0.0.1")}),
		ErrorEntry(sc, netip.MustParseAddr("10.0.0.2"), errors.New("boom")),
	}

	var buf bytes.Buffer
	if err := writeLines(&buf, entries); err != nil {
		t.Fatalf("writeLines() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}

	first := gjson.Parse(lines[0])
	if first.Get("ip").String() != "10.0.0.1" || first.Get("status").String() != "up" || first.Get("probe").String() != "icmp-echo" {
		t.Errorf("first line = %s", lines[0])
	}
	if first.Get("port").Exists() || first.Get("error").Exists() || first.Get("role").Exists() {
		t.Errorf("first line carries empty optional fields: %s", lines[0])
	}

	second := gjson.Parse(lines[1])
	if second.Get("error").String() != "boom" || second.Get("scan_id").String() != sc.ScanID {
		t.Errorf("second line = %s", lines[1])
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("LANSCANNER_JSON_BATCH_SIZE", "")
	t.Setenv("LANSCANNER_JSON_FLUSH_INTERVAL", "")
	if GetBatchSize() != DefaultBatchSize || GetFlushInterval() != DefaultFlushInterval {
		t.Errorf("defaults = %d, %s", GetBatchSize(), GetFlushInterval())
	}

	t.Setenv("LANSCANNER_JSON_BATCH_SIZE", "7")
	t.Setenv("LANSCANNER_JSON_FLUSH_INTERVAL", "250")
	if GetBatchSize() != 7 {
		t.Errorf("GetBatchSize() = %d, want 7", GetBatchSize())
	}
	if GetFlushInterval() != 250*time.Millisecond {
		t.Errorf("GetFlushInterval() = %s, want 250ms", GetFlushInterval())
	}

	t.Setenv("LANSCANNER_JSON_BATCH_SIZE", "-3")
	if GetBatchSize() != DefaultBatchSize {
		t.Errorf("GetBatchSize() with a negative value = %d, want default", GetBatchSize())
	}
}

// lockedBuffer is written from the batcher goroutine and read by the test
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWriterFlushesOnClose(t *testing.T) {
	t.Setenv("LANSCANNER_JSON_FLUSH_INTERVAL", "60000")

	var out lockedBuffer
	w := NewWriter(&out)

	sc := NewScanContext("eth0", probe.KindConnect, 80)
	w.Add(
		UpEntry(sc, scanner.Host{Addr: netip.MustParseAddr("10.0.0.1")}),
		types.HostEntry{IP: "10.0.0.2"}, // invalid, dropped
		DownEntry(sc, netip.MustParseAddr("10.0.0.3")),
	)
	w.Close()
	w.Close()

	var ips []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		ips = append(ips, gjson.Get(line, "ip").String())
	}
	if strings.Join(ips, ",") != "10.0.0.1,10.0.0.3" {
		t.Errorf("written ips = %v, want 10.0.0.1,10.0.0.3", ips)
	}
}
