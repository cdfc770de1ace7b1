package etl

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ValueRule is one field's normalization rule: either a direct rewrite
// mapping or a rewrite function. Exactly one variant is set; the zero
// value is not a valid rule.
type ValueRule struct {
	mapping map[string]interface{}
	fn      func(interface{}) (interface{}, error)
}

// MapValues builds a rule rewriting string values through a mapping.
// Values with no mapping entry (and non-string values) pass through
// unchanged.
func MapValues(m map[string]interface{}) ValueRule {
	return ValueRule{mapping: m}
}

// FuncValues builds a rule rewriting values with a function.
func FuncValues(fn func(interface{}) (interface{}, error)) ValueRule {
	return ValueRule{fn: fn}
}

// KeepValues builds a rule that passes the field through unchanged.
// The normalizer is strict about unlisted fields, so fields that need
// no rewriting still need an explicit entry.
func KeepValues() ValueRule {
	return ValueRule{fn: func(v interface{}) (interface{}, error) { return v, nil }}
}

// foldTransformer strips combining marks after NFD decomposition.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldValues builds a rule lowercasing string values and stripping
// diacritics, collapsing spelling variants like "São Paulo"/"sao paulo"
// onto one representation. Non-string values pass through unchanged.
func FoldValues() ValueRule {
	return ValueRule{fn: func(v interface{}) (interface{}, error) {
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		folded, _, err := transform.String(foldTransformer, s)
		if err != nil {
			return nil, fmt.Errorf("folding %q: %w", s, err)
		}
		return strings.ToLower(strings.TrimSpace(folded)), nil
	}}
}

// ValueNormalizer returns a transform rewriting field values per the
// given rules. A record field with no rule fails with an
// UnrecognizedNormalizerError rather than passing through, so the rule
// set doubles as a field whitelist.
func ValueNormalizer(rules map[string]ValueRule) TransformFunc {
	return func(r Record) (Record, error) {
		out := make(Record, len(r))
		for field, v := range r {
			rule, ok := rules[field]
			if !ok || (rule.mapping == nil && rule.fn == nil) {
				return nil, &UnrecognizedNormalizerError{Field: field}
			}
			if rule.fn != nil {
				rewritten, err := rule.fn(v)
				if err != nil {
					return nil, fmt.Errorf("normalizing field %q: %w", field, err)
				}
				out[field] = rewritten
				continue
			}
			if s, ok := v.(string); ok {
				if mapped, hit := rule.mapping[s]; hit {
					out[field] = mapped
					continue
				}
			}
			out[field] = v
		}
		return out, nil
	}
}

// RenameFields returns a transform renaming fields through a mapping.
// Fields absent from the mapping keep their name; a field mapped to the
// empty string is dropped from the output.
func RenameFields(mapping map[string]string) TransformFunc {
	return func(r Record) (Record, error) {
		out := make(Record, len(r))
		for field, v := range r {
			name, ok := mapping[field]
			if !ok {
				out[field] = v
				continue
			}
			if name == "" {
				continue
			}
			out[name] = v
		}
		return out, nil
	}
}

// RenameFieldsFunc returns a transform renaming fields with a function.
// Returning ok=false drops the field from the output.
func RenameFieldsFunc(fn func(string) (string, bool)) TransformFunc {
	return func(r Record) (Record, error) {
		out := make(Record, len(r))
		for field, v := range r {
			name, ok := fn(field)
			if !ok {
				continue
			}
			out[name] = v
		}
		return out, nil
	}
}
