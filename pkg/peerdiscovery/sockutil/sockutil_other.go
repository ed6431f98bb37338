//go:build !linux && !darwin

package sockutil

import (
	"context"
	"syscall"
	"time"
)

func Close(fd int) error { return ErrUnsupported }

func Shutdown(fd int) error { return ErrUnsupported }

func SetNonblock(fd int) error { return ErrUnsupported }

func SocketError(fd int) (syscall.Errno, error) { return 0, ErrUnsupported }

func Wait(ctx context.Context, fd int, readiness Readiness, timeout time.Duration) (bool, error) {
	return false, ErrUnsupported
}
