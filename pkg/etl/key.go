package etl

import (
	"fmt"
	"strings"
)

// GroupKey is the value deciding which records aggregate together: an
// ordered tuple of (field name, value) pairs. Keys support a total
// ordering (for the aggregate sort) and equality (for grouping), and a
// key derived from field names expands back into a partial record.
type GroupKey struct {
	fields []string
	values []interface{}
}

// NewGroupKey builds a key from parallel field and value slices. The
// fields become output fields when the key is expanded.
func NewGroupKey(fields []string, values []interface{}) GroupKey {
	return GroupKey{fields: fields, values: values}
}

// KeyOf builds an opaque key from bare values. Opaque keys order and
// compare like field-derived keys but expand into an empty record.
func KeyOf(values ...interface{}) GroupKey {
	return GroupKey{values: values}
}

// Compare orders two keys value-wise, left to right. Values of
// different dynamic kinds order by kind (nil < bool < number < string
// < everything else); values outside those kinds fall back to their
// formatted representation.
func (k GroupKey) Compare(other GroupKey) int {
	n := len(k.values)
	if len(other.values) < n {
		n = len(other.values)
	}
	for i := 0; i < n; i++ {
		if c := compareValues(k.values[i], other.values[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k.values) < len(other.values):
		return -1
	case len(k.values) > len(other.values):
		return 1
	}
	return 0
}

// Equal reports whether two keys compare identical.
func (k GroupKey) Equal(other GroupKey) bool {
	return k.Compare(other) == 0
}

// Expand reconstructs the partial record the key was derived from. An
// opaque key expands into an empty record.
func (k GroupKey) Expand() Record {
	out := make(Record, len(k.fields))
	for i, f := range k.fields {
		out[f] = k.values[i]
	}
	return out
}

// String formats the key for error messages and logs.
func (k GroupKey) String() string {
	parts := make([]string, len(k.values))
	for i, v := range k.values {
		if i < len(k.fields) {
			parts[i] = fmt.Sprintf("%s=%v", k.fields[i], v)
		} else {
			parts[i] = fmt.Sprintf("%v", v)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// KeyFunc derives a grouping key from a record.
type KeyFunc func(Record) (GroupKey, error)

// KeySpec selects how the aggregate stage derives keys: from a list of
// field names, or from a caller-supplied function. The variant is fixed
// at construction, not re-checked per record.
type KeySpec struct {
	fields []string
	fn     KeyFunc
}

// KeyFields derives the key from the named fields, in order. A record
// missing any key field fails key derivation.
func KeyFields(fields ...string) KeySpec {
	return KeySpec{fields: fields}
}

// KeyBy derives the key with a caller-supplied function.
func KeyBy(fn KeyFunc) KeySpec {
	return KeySpec{fn: fn}
}

// extractor resolves the KeySpec into a single key function.
func (s KeySpec) extractor() KeyFunc {
	if s.fn != nil {
		return s.fn
	}
	fields := s.fields
	return func(r Record) (GroupKey, error) {
		values := make([]interface{}, len(fields))
		for i, f := range fields {
			v, ok := r[f]
			if !ok {
				return GroupKey{}, fmt.Errorf("record has no key field %q", f)
			}
			values[i] = v
		}
		return NewGroupKey(fields, values), nil
	}
}

// Kind ranks for cross-type value ordering.
const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankOther
)

func valueRank(v interface{}) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return rankNumber
	case string:
		return rankString
	default:
		return rankOther
	}
}

// compareValues is the total ordering used for key sorting.
func compareValues(a, b interface{}) int {
	ra, rb := valueRank(a), valueRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case rankNil:
		return 0
	case rankBool:
		av, bv := a.(bool), b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case rankNumber:
		av, _ := numericValue(a)
		bv, _ := numericValue(b)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case rankString:
		return strings.Compare(a.(string), b.(string))
	default:
		return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
	}
}

// numericValue coerces any numeric kind to float64.
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
