//go:build linux || darwin

package arp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	osutils "github.com/projectdiscovery/utils/os"
)

// ReadDeviceTable reads the entries of the local ARP cache (Linux and macOS)
// learnt on device. An empty device returns every entry.
func ReadDeviceTable(ctx context.Context, device string) (Table, error) {
	if osutils.IsLinux() {
		return readLinuxTable(device)
	} else if osutils.IsOSX() {
		return readDarwinTable(ctx, device)
	}
	return nil, ErrUnsupported
}

// readLinuxTable reads ARP table from /proc/net/arp
func readLinuxTable(device string) (Table, error) {
	f, err := os.Open("/proc/net/arp")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return parseLinuxTable(f, device)
}

// readDarwinTable reads ARP table using 'arp -an' on macOS
func readDarwinTable(ctx context.Context, device string) (Table, error) {
	output, err := exec.CommandContext(ctx, "arp", "-an").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute arp -an: %w", err)
	}
	return parseDarwinTable(bytes.NewReader(output), device)
}
