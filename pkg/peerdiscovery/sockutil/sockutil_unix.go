//go:build linux || darwin

package sockutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Close releases fd. The error is returned only so call sites can discard it
// explicitly; nothing else observes it.
func Close(fd int) error {
	return unix.Close(fd)
}

// Shutdown requests a graceful bidirectional shutdown of fd.
func Shutdown(fd int) error {
	return unix.Shutdown(fd, unix.SHUT_RDWR)
}

// SetNonblock switches fd into non-blocking mode.
func SetNonblock(fd int) error {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return os.NewSyscallError("fcntl", err)
	}
	if flags&unix.O_NONBLOCK != 0 {
		return nil
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags|unix.O_NONBLOCK); err != nil {
		return os.NewSyscallError("fcntl", err)
	}
	return nil
}

// SocketError reads and clears the pending SO_ERROR of fd. A zero Errno means
// no error is pending.
func SocketError(fd int) (unix.Errno, error) {
	code, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return 0, os.NewSyscallError("getsockopt", err)
	}
	return unix.Errno(code), nil
}

// Wait blocks until fd reaches the requested readiness, the timeout expires,
// or ctx is cancelled.
//
// It returns (true, nil) when ready, (false, nil) on expiry and
// (false, ErrInterrupted) on cancellation. Error and hang-up conditions count
// as ready so the caller can read the pending socket error.
func Wait(ctx context.Context, fd int, readiness Readiness, timeout time.Duration) (bool, error) {
	var events int16
	switch readiness {
	case Readable:
		events = unix.POLLIN
	case Writable:
		events = unix.POLLOUT
	default:
		return false, fmt.Errorf("invalid readiness %d", readiness)
	}

	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			return false, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}
		slice := min(remaining, maxWaitSlice)

		fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
		n, err := unix.Poll(fds, pollMillis(slice))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				// runtime signals interrupt poll too; only ctx decides
				continue
			}
			return false, os.NewSyscallError("poll", err)
		}
		if n > 0 && fds[0].Revents&(events|unix.POLLERR|unix.POLLHUP) != 0 {
			return true, nil
		}
		if n > 0 && fds[0].Revents&unix.POLLNVAL != 0 {
			return false, os.NewSyscallError("poll", unix.EBADF)
		}
	}
}

// pollMillis rounds d up to poll's millisecond resolution.
func pollMillis(d time.Duration) int {
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	return int(ms)
}
