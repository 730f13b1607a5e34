package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink receives audit records from the engine's dispatcher. Emit must not
// block indefinitely; the dispatcher passes a context that is cancelled on
// shutdown.
type Sink interface {
	Emit(ctx context.Context, record Record)
}

// NoOpSink silently discards all records.
type NoOpSink struct{}

// Emit discards the record.
func (NoOpSink) Emit(context.Context, Record) {}

// ChannelSink forwards records onto a buffered channel for consumption by
// a caller-owned goroutine.
type ChannelSink struct {
	records chan Record
}

// NewChannelSink creates a ChannelSink with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{records: make(chan Record, buffer)}
}

// Emit forwards the record, giving up if ctx is cancelled first.
func (s *ChannelSink) Emit(ctx context.Context, record Record) {
	select {
	case s.records <- record:
	case <-ctx.Done():
	}
}

// Records exposes the receive side of the sink.
func (s *ChannelSink) Records() <-chan Record {
	return s.records
}

// JSONWriterSink writes one JSON-encoded record per line to an io.Writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a JSONWriterSink that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

// Emit writes the record as a single JSON line.
func (s *JSONWriterSink) Emit(_ context.Context, record Record) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(record)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// RotatingFileSink appends JSON lines to a size-rotated file on disk.
type RotatingFileSink struct {
	inner  *JSONWriterSink
	closer io.Closer
}

// NewRotatingFileSink creates a RotatingFileSink writing to path, rotating
// at maxSizeMB megabytes and keeping maxBackups old files.
func NewRotatingFileSink(path string, maxSizeMB, maxBackups int) *RotatingFileSink {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	return &RotatingFileSink{
		inner:  NewJSONWriterSink(lj),
		closer: lj,
	}
}

// Emit writes the record as a single JSON line.
func (s *RotatingFileSink) Emit(ctx context.Context, record Record) {
	s.inner.Emit(ctx, record)
}

// Close flushes and closes the underlying file.
func (s *RotatingFileSink) Close() error {
	return s.closer.Close()
}
