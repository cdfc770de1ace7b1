package sinks

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rowpipe/runtime/pkg/etl"
)

// JSONLSink writes records to a file as JSON lines, one object per
// record.
type JSONLSink struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
}

// NewJSONLSink creates a JSON lines sink writing to path, creating
// parent directories as needed.
func NewJSONLSink(path string) (*JSONLSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sink directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating jsonl sink: %w", err)
	}

	writer := bufio.NewWriter(f)
	return &JSONLSink{file: f, writer: writer, encoder: json.NewEncoder(writer)}, nil
}

// Write appends one record as a JSON line.
func (s *JSONLSink) Write(r etl.Record) error {
	if err := s.encoder.Encode(r); err != nil {
		return fmt.Errorf("encoding jsonl record: %w", err)
	}
	return nil
}

// Close flushes buffered lines and closes the file.
func (s *JSONLSink) Close() error {
	flushErr := s.writer.Flush()
	closeErr := s.file.Close()
	if flushErr != nil {
		return fmt.Errorf("flushing jsonl sink: %w", flushErr)
	}
	return closeErr
}
