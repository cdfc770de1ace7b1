package sinks

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rowpipe/runtime/pkg/etl"
)

// CSVSink writes records to a delimited file. The header is derived
// from the first record's sorted field names; later records are written
// in that column order, with absent fields left empty.
type CSVSink struct {
	file    *os.File
	writer  *csv.Writer
	columns []string
}

// NewCSVSink creates a CSV sink writing to path, creating parent
// directories as needed. A zero comma defaults to ','.
func NewCSVSink(path string, comma rune) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sink directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating csv sink: %w", err)
	}

	writer := csv.NewWriter(f)
	if comma != 0 {
		writer.Comma = comma
	}
	return &CSVSink{file: f, writer: writer}, nil
}

// Write appends one record as a CSV row, emitting the header first if
// this is the first record.
func (s *CSVSink) Write(r etl.Record) error {
	if s.columns == nil {
		s.columns = r.Fields()
		if err := s.writer.Write(s.columns); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
	}

	row := make([]string, len(s.columns))
	for i, col := range s.columns {
		if v, ok := r[col]; ok {
			row[i] = fmt.Sprintf("%v", v)
		}
	}
	if err := s.writer.Write(row); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (s *CSVSink) Close() error {
	s.writer.Flush()
	flushErr := s.writer.Error()
	closeErr := s.file.Close()
	if flushErr != nil {
		return fmt.Errorf("flushing csv sink: %w", flushErr)
	}
	return closeErr
}
