// Package audit persists the diagnostic trail of store writes. The
// trail is observability output only; nothing reads it back.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"crochethub/internal/kv"
)

// Writer appends write events to a sink.
type Writer interface {
	Append(ev kv.WriteEvent) error
}

// MultiWriter fans out events to multiple underlying writers.
type MultiWriter struct {
	writers []Writer
}

func NewMultiWriter(ws ...Writer) *MultiWriter {
	return &MultiWriter{writers: ws}
}

func (m *MultiWriter) Append(ev kv.WriteEvent) error {
	for _, w := range m.writers {
		if err := w.Append(ev); err != nil {
			return err
		}
	}
	return nil
}

// FileWriter appends events as jsonl.
type FileWriter struct {
	path string
}

func NewFileWriter(dir string, filename string) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &FileWriter{path: filepath.Join(dir, filename)}, nil
}

func (w *FileWriter) Append(ev kv.WriteEvent) error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	if err := enc.Encode(&ev); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// LoggerWriter emits events as structured log lines.
type LoggerWriter struct {
	log zerolog.Logger
}

func NewLoggerWriter(log zerolog.Logger) *LoggerWriter {
	return &LoggerWriter{log: log}
}

func (w *LoggerWriter) Append(ev kv.WriteEvent) error {
	w.log.Info().
		Str("key", ev.Key).
		Str("op", ev.Op).
		Int("bytes", ev.Bytes).
		Msg("data saved")
	return nil
}

// Sink adapts a Writer into a kv.Observer.
type Sink struct {
	w Writer
}

func NewSink(w Writer) *Sink { return &Sink{w: w} }

func (s *Sink) ObserveWrite(ev kv.WriteEvent) error { return s.w.Append(ev) }
