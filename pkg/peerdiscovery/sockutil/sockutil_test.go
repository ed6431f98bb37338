//go:build linux || darwin

package sockutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func socketPair(t *testing.T) (int, int) {
	t.Helper()

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("Socketpair() error = %v", err)
	}
	t.Cleanup(func() {
		_ = Close(fds[0])
		_ = Close(fds[1])
	})
	return fds[0], fds[1]
}

func TestSetNonblock(t *testing.T) {
	a, _ := socketPair(t)

	for i := 0; i < 2; i++ {
		if err := SetNonblock(a); err != nil {
			t.Fatalf("SetNonblock() call %d error = %v", i+1, err)
		}
	}

	flags, err := unix.FcntlInt(uintptr(a), unix.F_GETFL, 0)
	if err != nil {
		t.Fatalf("fcntl error = %v", err)
	}
	if flags&unix.O_NONBLOCK == 0 {
		t.Error("O_NONBLOCK not set after SetNonblock()")
	}
}

func TestSetNonblockBadDescriptor(t *testing.T) {
	if err := SetNonblock(-1); err == nil {
		t.Error("SetNonblock(-1) error = nil, want error")
	}
}

func TestCloseReportsButDoesNotPanic(t *testing.T) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("Socketpair() error = %v", err)
	}
	defer func() { _ = Close(fds[1]) }()

	if err := Close(fds[0]); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := Close(fds[0]); !errors.Is(err, unix.EBADF) {
		t.Errorf("second Close() error = %v, want EBADF", err)
	}
}

func TestSocketErrorClean(t *testing.T) {
	a, _ := socketPair(t)

	code, err := SocketError(a)
	if err != nil {
		t.Fatalf("SocketError() error = %v", err)
	}
	if code != 0 {
		t.Errorf("SocketError() = %v, want 0", code)
	}
}

func TestWait(t *testing.T) {
	tests := []struct {
		name      string
		readiness Readiness
		prepare   func(t *testing.T, peer int)
		timeout   time.Duration
		wantReady bool
	}{
		{
			name:      "writable immediately",
			readiness: Writable,
			timeout:   time.Second,
			wantReady: true,
		},
		{
			name:      "readable after peer writes",
			readiness: Readable,
			prepare: func(t *testing.T, peer int) {
				if _, err := unix.Write(peer, []byte("x")); err != nil {
					t.Fatalf("Write() error = %v", err)
				}
			},
			timeout:   time.Second,
			wantReady: true,
		},
		{
			name:      "readable after peer hangs up",
			readiness: Readable,
			prepare: func(t *testing.T, peer int) {
				if err := Shutdown(peer); err != nil {
					t.Fatalf("Shutdown() error = %v", err)
				}
			},
			timeout:   time.Second,
			wantReady: true,
		},
		{
			name:      "nothing to read expires",
			readiness: Readable,
			timeout:   20 * time.Millisecond,
			wantReady: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := socketPair(t)
			if tt.prepare != nil {
				tt.prepare(t, b)
			}

			start := time.Now()
			ready, err := Wait(context.Background(), a, tt.readiness, tt.timeout)
			if err != nil {
				t.Fatalf("Wait() error = %v", err)
			}
			if ready != tt.wantReady {
				t.Errorf("Wait() ready = %v, want %v", ready, tt.wantReady)
			}
			if !tt.wantReady && time.Since(start) < tt.timeout {
				t.Errorf("Wait() returned after %s, before the %s timeout", time.Since(start), tt.timeout)
			}
		})
	}
}

func TestWaitCancelledBeforeStart(t *testing.T) {
	a, _ := socketPair(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ready, err := Wait(ctx, a, Writable, time.Second)
	if ready {
		t.Error("Wait() ready = true on cancelled context")
	}
	if !errors.Is(err, ErrInterrupted) {
		t.Errorf("Wait() error = %v, want ErrInterrupted", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want it to wrap context.Canceled", err)
	}
}

func TestWaitCancelledDuringWait(t *testing.T) {
	a, _ := socketPair(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	start := time.Now()
	_, err := Wait(ctx, a, Readable, 10*time.Second)
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Wait() error = %v, want ErrInterrupted", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Wait() took %s to notice cancellation", elapsed)
	}
}

func TestWaitInvalidReadiness(t *testing.T) {
	a, _ := socketPair(t)

	if _, err := Wait(context.Background(), a, Readiness(0), time.Millisecond); err == nil {
		t.Error("Wait() with zero readiness error = nil, want error")
	}
}

func TestPollMillis(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{in: 10 * time.Millisecond, want: 10},
		{in: 1500 * time.Microsecond, want: 2},
		{in: time.Microsecond, want: 1},
		{in: 50 * time.Millisecond, want: 50},
	}

	for _, tt := range tests {
		if got := pollMillis(tt.in); got != tt.want {
			t.Errorf("pollMillis(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
