package sinks

import "github.com/rowpipe/runtime/pkg/etl"

// MemorySink collects records in memory. Dry runs use it to count
// output without touching the filesystem, and tests use it to inspect
// pipeline output.
type MemorySink struct {
	Records []etl.Record
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write appends a clone of the record, so later mutations by the
// producer are not observed.
func (s *MemorySink) Write(r etl.Record) error {
	s.Records = append(s.Records, r.Clone())
	return nil
}

// Close is a no-op.
func (s *MemorySink) Close() error {
	return nil
}

// DiscardSink drops every record.
type DiscardSink struct{}

// NewDiscardSink creates a sink that drops all records.
func NewDiscardSink() *DiscardSink {
	return &DiscardSink{}
}

// Write drops the record.
func (s *DiscardSink) Write(etl.Record) error {
	return nil
}

// Close is a no-op.
func (s *DiscardSink) Close() error {
	return nil
}
