//go:build !linux && !darwin

package arp

import "context"

func ReadDeviceTable(ctx context.Context, device string) (Table, error) {
	return nil, ErrUnsupported
}
