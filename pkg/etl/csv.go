package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVSource reads a delimited file into records keyed by header column
// name. All values are strings; downstream transforms coerce types as
// needed. The source is restartable: every call to Records reopens the
// file from the top.
type CSVSource struct {
	path  string
	comma rune
}

// CSVOption configures a CSVSource.
type CSVOption func(*CSVSource)

// WithComma sets the field delimiter (default ',').
func WithComma(comma rune) CSVOption {
	return func(s *CSVSource) {
		s.comma = comma
	}
}

// NewCSVSource builds a source over a delimited file. The first row is
// the header; each subsequent row becomes one record.
func NewCSVSource(path string, opts ...CSVOption) *CSVSource {
	s := &CSVSource{path: path, comma: ','}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Records implements Source. The file is held open only while the
// sequence is being pulled and closed when the consumer stops.
func (s *CSVSource) Records() Seq {
	return func(yield func(Record, error) bool) {
		f, err := os.Open(s.path)
		if err != nil {
			yield(nil, fmt.Errorf("opening csv source: %w", err))
			return
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.Comma = s.comma
		reader.ReuseRecord = true

		header, err := reader.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			yield(nil, fmt.Errorf("reading csv header: %w", err))
			return
		}
		columns := make([]string, len(header))
		copy(columns, header)

		for line := 2; ; line++ {
			row, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("reading csv line %d: %w", line, err))
				return
			}
			record := make(Record, len(columns))
			for i, col := range columns {
				if i < len(row) {
					record[col] = row[i]
				}
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}
