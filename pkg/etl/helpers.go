package etl

import (
	"fmt"
	"sort"
	"strings"
)

// MergeFields collapses a group into a single record. Every record in
// the group must agree on the value of each field it carries; the first
// disagreement fails with a MergeConflictError naming the field and the
// two conflicting values.
func MergeFields(group []Record) (Record, error) {
	out := Record{}
	for _, r := range group {
		for field, v := range r {
			prev, seen := out[field]
			if !seen {
				out[field] = v
				continue
			}
			if compareValues(prev, v) != 0 {
				return nil, &MergeConflictError{Field: field, A: v, B: prev}
			}
		}
	}
	return out, nil
}

// SumByField returns a builder summing a numeric field across the
// group. The sum is an int when every input value is an integer kind,
// a float64 otherwise. A missing or non-numeric value fails the build.
func SumByField(field string) FieldBuilder {
	return func(group []Record) (interface{}, error) {
		var total float64
		allInts := true
		for _, r := range group {
			v, ok := r[field]
			if !ok {
				return nil, fmt.Errorf("record has no field %q to sum", field)
			}
			n, ok := numericValue(v)
			if !ok {
				return nil, fmt.Errorf("field %q is not numeric: %v (%T)", field, v, v)
			}
			switch v.(type) {
			case float32, float64:
				allInts = false
			}
			total += n
		}
		if allInts {
			return int(total), nil
		}
		return total, nil
	}
}

// Count returns a builder producing the group size.
func Count() FieldBuilder {
	return func(group []Record) (interface{}, error) {
		return len(group), nil
	}
}

// FirstField returns a builder producing the named field of the first
// record in the group. With a stable aggregate sort, "first" means the
// earliest record in input order among the group.
func FirstField(field string) FieldBuilder {
	return func(group []Record) (interface{}, error) {
		v, ok := group[0][field]
		if !ok {
			return nil, fmt.Errorf("record has no field %q", field)
		}
		return v, nil
	}
}

// PivotOn returns a builder producing a mapping from each group
// record's pivot field value to its value field. Two records sharing a
// pivot value fail with a PivotCollisionError. Pivot values are keyed
// by their formatted representation.
func PivotOn(pivotField, valueField string) FieldBuilder {
	return func(group []Record) (interface{}, error) {
		out := make(map[string]interface{}, len(group))
		for _, r := range group {
			pv, ok := r[pivotField]
			if !ok {
				return nil, fmt.Errorf("record has no pivot field %q", pivotField)
			}
			key := fmt.Sprintf("%v", pv)
			if _, exists := out[key]; exists {
				return nil, &PivotCollisionError{Key: key}
			}
			out[key] = r[valueField]
		}
		return out, nil
	}
}

// CompoundKeyDelimiter joins stringified field values in compound keys.
// Field values must not contain the delimiter; the round trip through
// the inverse function is silently wrong if they do. That is a contract
// on the caller's data, not something this package detects.
const CompoundKeyDelimiter = "-"

// InverseTransform converts one split key segment back into a field
// value, for fields whose values are not plain strings.
type InverseTransform func(string) (interface{}, error)

// CompoundKey returns a pair of functions: one deriving a delimited
// string key from the named fields, and its inverse reconstructing a
// partial record from such a key, applying per-field inverse transforms
// where supplied.
func CompoundKey(fields []string, inverse map[string]InverseTransform) (func(Record) (string, error), func(string) (Record, error)) {
	keyFn := func(r Record) (string, error) {
		parts := make([]string, len(fields))
		for i, f := range fields {
			v, ok := r[f]
			if !ok {
				return "", fmt.Errorf("record has no key field %q", f)
			}
			parts[i] = fmt.Sprintf("%v", v)
		}
		return strings.Join(parts, CompoundKeyDelimiter), nil
	}

	inverseFn := func(key string) (Record, error) {
		parts := strings.Split(key, CompoundKeyDelimiter)
		if len(parts) != len(fields) {
			return nil, fmt.Errorf("compound key %q has %d segments, want %d", key, len(parts), len(fields))
		}
		out := make(Record, len(fields))
		for i, f := range fields {
			if inv, ok := inverse[f]; ok {
				v, err := inv(parts[i])
				if err != nil {
					return nil, fmt.Errorf("inverting key field %q: %w", f, err)
				}
				out[f] = v
				continue
			}
			out[f] = parts[i]
		}
		return out, nil
	}

	return keyFn, inverseFn
}

// AddFields returns a transform that clones each record and adds the
// computed fields. Builders run in sorted name order, so later names
// see fields added by earlier ones.
func AddFields(builders map[string]func(Record) (interface{}, error)) TransformFunc {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(r Record) (Record, error) {
		out := r.Clone()
		for _, name := range names {
			v, err := builders[name](out)
			if err != nil {
				return nil, fmt.Errorf("adding field %q: %w", name, err)
			}
			out[name] = v
		}
		return out, nil
	}
}
