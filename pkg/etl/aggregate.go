package etl

import (
	"fmt"
	"sort"
)

// FieldBuilder computes one derived field's value from an entire group
// of records.
type FieldBuilder func(group []Record) (interface{}, error)

// GroupBuilder computes a whole record of derived fields from a group.
type GroupBuilder func(group []Record) (Record, error)

// BuilderSpec selects how the aggregate stage derives output fields:
// a mapping of field name to FieldBuilder, each applied independently,
// or a single GroupBuilder whose result is merged wholesale. The
// variant is fixed at construction.
type BuilderSpec struct {
	names    []string
	perField map[string]FieldBuilder
	whole    GroupBuilder
}

// BuildFields derives one output field per named builder. Builders are
// applied in sorted name order so output construction is deterministic.
func BuildFields(builders map[string]FieldBuilder) BuilderSpec {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return BuilderSpec{names: names, perField: builders}
}

// BuildRecord derives the whole set of output fields with one function.
func BuildRecord(fn GroupBuilder) BuilderSpec {
	return BuilderSpec{whole: fn}
}

// apply seeds out with the builders' fields. Builder output overwrites
// any field the key expansion already set.
func (s BuilderSpec) apply(out Record, group []Record) error {
	if s.whole != nil {
		built, err := s.whole(group)
		if err != nil {
			return err
		}
		for name, v := range built {
			out[name] = v
		}
		return nil
	}
	for _, name := range s.names {
		v, err := s.perField[name](group)
		if err != nil {
			return fmt.Errorf("building field %q: %w", name, err)
		}
		out[name] = v
	}
	return nil
}

// AggregateStage groups records by a derived key and emits one record
// per group, in ascending key order.
//
// This is the one stage that is not lazy on its input: producing the
// first output requires materializing, keying, and sorting the entire
// upstream sequence. Memory use is proportional to the input size; that
// is a documented property of the stage, not an accident.
type AggregateStage struct {
	key      KeySpec
	builders BuilderSpec
}

// Aggregate builds an aggregation stage from a key spec and a builder
// spec.
func Aggregate(key KeySpec, builders BuilderSpec) *AggregateStage {
	return &AggregateStage{key: key, builders: builders}
}

// keyedRecord pairs a record with its derived key for sorting.
type keyedRecord struct {
	key    GroupKey
	record Record
}

// Run implements Stage. The entire input is drained and sorted before
// the first output record, so a key derivation error on any input
// record surfaces before any output is yielded. FieldBuilder errors
// surface at the group that triggers them. Emission itself is lazy:
// group outputs are built one at a time as the consumer pulls.
func (s *AggregateStage) Run(src Seq) Seq {
	extract := s.key.extractor()
	return func(yield func(Record, error) bool) {
		var rows []keyedRecord
		for r, err := range src {
			if err != nil {
				yield(nil, err)
				return
			}
			key, err := extract(r)
			if err != nil {
				yield(nil, err)
				return
			}
			rows = append(rows, keyedRecord{key: key, record: r})
		}

		// Stable sort keeps input order within key ties deterministic
		// for builders that inspect group order.
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].key.Compare(rows[j].key) < 0
		})

		for start := 0; start < len(rows); {
			end := start + 1
			for end < len(rows) && rows[end].key.Equal(rows[start].key) {
				end++
			}
			group := make([]Record, 0, end-start)
			for _, kr := range rows[start:end] {
				group = append(group, kr.record)
			}

			out := rows[start].key.Expand()
			if err := s.builders.apply(out, group); err != nil {
				yield(nil, err)
				return
			}
			if !yield(out, nil) {
				return
			}
			start = end
		}
	}
}
