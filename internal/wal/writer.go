package wal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kvshard/kvshard/internal/logger"
	"github.com/kvshard/kvshard/internal/metric"
)

// Default batching thresholds, per the durability budget in the design:
// up to 5ms or 128KiB of buffered records may be lost on crash.
const (
	DefaultFlushInterval = 5 * time.Millisecond
	DefaultMaxBatchBytes = 128 * 1024
)

type msgKind uint8

const (
	msgWrite msgKind = iota
	msgTruncate
)

type message struct {
	kind msgKind
	data []byte
}

// Writer is the per-shard WAL actor. It owns the log file exclusively;
// nothing else writes to it. Writes are buffered in memory and flushed
// on a timer or once the buffer grows past MaxBatchBytes; Truncate
// flushes first, then zeroes the file so recovery never replays a
// record the snapshot already covers.
type Writer struct {
	path          string
	flushInterval time.Duration
	maxBatchBytes int

	log     logger.Logger
	metrics *metric.Registry
	shardID string

	file *os.File
	msgs chan message
	done chan struct{}

	buf []byte
}

// Options configures a Writer.
type Options struct {
	Path          string
	ChannelCap    int
	FlushInterval time.Duration
	MaxBatchBytes int
	Logger        logger.Logger

	// ShardID labels this writer's metrics. Metrics are skipped entirely
	// if Metrics is nil.
	ShardID int
	Metrics *metric.Registry
}

// NewWriter opens (or creates) the shard's log file in append mode and
// starts its background flush loop.
func NewWriter(opts Options) (*Writer, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("wal: path is required")
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = DefaultFlushInterval
	}
	if opts.MaxBatchBytes <= 0 {
		opts.MaxBatchBytes = DefaultMaxBatchBytes
	}
	if opts.ChannelCap <= 0 {
		opts.ChannelCap = 1024
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("wal: open %s: %w", opts.Path, err)
	}

	w := &Writer{
		path:          opts.Path,
		flushInterval: opts.FlushInterval,
		maxBatchBytes: opts.MaxBatchBytes,
		log:           opts.Logger,
		metrics:       opts.Metrics,
		shardID:       strconv.Itoa(opts.ShardID),
		file:          f,
		msgs:          make(chan message, opts.ChannelCap),
		done:          make(chan struct{}),
	}

	go w.run()
	return w, nil
}

// Append encodes and enqueues a record. The call blocks if the writer's
// channel is full — this is the engine's WAL-side backpressure
// suspension point (spec §5).
func (w *Writer) Append(r Record) {
	w.msgs <- message{kind: msgWrite, data: Encode(r)}
}

// Truncate enqueues a truncate request. Everything enqueued before it is
// flushed first; anything enqueued after appends from offset zero.
func (w *Writer) Truncate() {
	w.msgs <- message{kind: msgTruncate}
}

// Close drains the channel, flushes whatever remains, and closes the
// file. It does not truncate.
func (w *Writer) Close() error {
	close(w.msgs)
	<-w.done
	return w.file.Close()
}

func (w *Writer) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-w.msgs:
			if !ok {
				w.flush()
				return
			}
			switch msg.kind {
			case msgWrite:
				w.buf = append(w.buf, msg.data...)
				if len(w.buf) >= w.maxBatchBytes {
					w.flush()
				}
			case msgTruncate:
				w.flush()
				w.truncate()
			}
		case <-ticker.C:
			if len(w.buf) > 0 {
				w.flush()
			}
		}
	}
}

// flush is best-effort: an I/O error is logged, never propagated, per
// the failure semantics in spec §7 — the in-memory mutation already
// happened and the reply has already gone out.
func (w *Writer) flush() {
	if len(w.buf) == 0 {
		return
	}
	start := time.Now()
	defer func() {
		if w.metrics != nil {
			w.metrics.WALFlushDuration.WithLabelValues(w.shardID).Observe(time.Since(start).Seconds())
		}
	}()

	if _, err := w.file.Write(w.buf); err != nil {
		w.log.Error("wal flush failed", "path", w.path, "error", err)
		w.buf = w.buf[:0]
		return
	}
	if err := w.file.Sync(); err != nil {
		w.log.Error("wal sync failed", "path", w.path, "error", err)
	}
	w.buf = w.buf[:0]
}

func (w *Writer) truncate() {
	if err := w.file.Truncate(0); err != nil {
		w.log.Error("wal truncate failed", "path", w.path, "error", err)
		return
	}
	if _, err := w.file.Seek(0, 0); err != nil {
		w.log.Error("wal seek failed", "path", w.path, "error", err)
		return
	}
	if err := w.file.Sync(); err != nil {
		w.log.Error("wal sync after truncate failed", "path", w.path, "error", err)
	}
}
