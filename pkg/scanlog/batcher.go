package scanlog

import (
	"encoding/json"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/lanscanner/pkg/types"
	"github.com/projectdiscovery/utils/batcher"
	envutil "github.com/projectdiscovery/utils/env"
)

var (
	// Default number of entries written per flush
	DefaultBatchSize = 100
	// Default flush interval for buffered entries
	DefaultFlushInterval = time.Second
)

// GetBatchSize returns the batch size from environment or default
func GetBatchSize() int {
	envVal := envutil.GetEnvOrDefault("LANSCANNER_JSON_BATCH_SIZE", "")
	if envVal != "" {
		if size, err := strconv.Atoi(envVal); err == nil && size > 0 {
			return size
		}
	}
	return DefaultBatchSize
}

// GetFlushInterval returns the flush interval from environment or default.
// The environment value is in milliseconds.
func GetFlushInterval() time.Duration {
	envVal := envutil.GetEnvOrDefault("LANSCANNER_JSON_FLUSH_INTERVAL", "")
	if envVal != "" {
		if interval, err := strconv.Atoi(envVal); err == nil && interval > 0 {
			return time.Duration(interval) * time.Millisecond
		}
	}
	return DefaultFlushInterval
}

// Writer buffers host entries and writes them to an io.Writer as JSON lines.
// Entries are written in the order they were added.
type Writer struct {
	b         *batcher.Batcher[types.HostEntry]
	closeOnce sync.Once
}

// NewWriter starts a batching JSON lines writer on w
func NewWriter(w io.Writer) *Writer {
	b := batcher.New(
		batcher.WithMaxCapacity[types.HostEntry](GetBatchSize()),
		batcher.WithFlushInterval[types.HostEntry](GetFlushInterval()),
		batcher.WithFlushCallback[types.HostEntry](func(entries []types.HostEntry) {
			if err := writeLines(w, entries); err != nil {
				gologger.Warning().Msgf("Could not write %d scan results: %s", len(entries), err)
			}
		}),
	)

	// Start the batcher
	go b.Run()

	return &Writer{b: b}
}

// Add queues entries for writing. Invalid entries are dropped.
func (w *Writer) Add(entries ...types.HostEntry) {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			gologger.Debug().Msgf("Dropping scan result for %q: %s", entry.IP, err)
			continue
		}
		w.b.Append(entry)
	}
}

// Close flushes pending entries and stops the writer
func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		w.b.Stop()
		w.b.WaitDone()
	})
}

func writeLines(w io.Writer, entries []types.HostEntry) error {
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
