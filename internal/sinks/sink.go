// Package sinks provides record sinks for pipeline output: delimited
// files, JSON lines, and in-memory collection.
package sinks

import "github.com/rowpipe/runtime/pkg/etl"

// Sink receives pipeline output records one at a time. Close flushes
// buffered output and releases resources; it must be called even after
// a Write error.
type Sink interface {
	Write(r etl.Record) error
	Close() error
}
