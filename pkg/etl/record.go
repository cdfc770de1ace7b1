// Package etl provides a small composable ETL pipeline library: lazy
// sequences of records threaded through transform, filter, split, and
// aggregate stages.
//
// A Record is one row of tabular data, a mapping from field name to value.
// Stages never mutate the records they receive; a stage that changes a
// record produces a new one, so upstream references stay valid.
package etl

import "sort"

// Record is one row of data: a mapping from field name to value.
// Values are typically strings, numbers, booleans, nil, or nested
// maps/slices decoded from JSON or YAML.
type Record map[string]interface{}

// Clone returns a deep copy of the record. Nested maps and slices are
// copied recursively so the clone can be modified without touching the
// original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Fields returns the record's field names in sorted order.
func (r Record) Fields() []string {
	fields := make([]string, 0, len(r))
	for k := range r {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case Record:
		return map[string]interface{}(val.Clone())
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
