// Package sockutil holds the small file-descriptor helpers shared by the
// probes: non-blocking mode, explicit close/shutdown, pending socket errors and
// a bounded readiness wait that honours context cancellation.
package sockutil

import (
	"errors"
	"time"
)

// ErrInterrupted is returned by Wait when the context is cancelled before the
// descriptor becomes ready or the timeout expires.
var ErrInterrupted = errors.New("wait interrupted")

// ErrUnsupported is returned on platforms without raw socket support.
var ErrUnsupported = errors.New("raw sockets are not supported on this platform")

// Readiness selects the event Wait blocks on.
type Readiness uint8

const (
	// Readable waits for incoming data or a pending error.
	Readable Readiness = iota + 1
	// Writable waits for a connect to complete or fail.
	Writable
)

func (r Readiness) String() string {
	switch r {
	case Readable:
		return "readable"
	case Writable:
		return "writable"
	default:
		return "unknown"
	}
}

// maxWaitSlice caps a single blocking call inside Wait so cancellation is
// noticed even when the caller asked for a long timeout.
const maxWaitSlice = 50 * time.Millisecond
