package stages

import (
	"fmt"
	"strings"

	"github.com/rowpipe/runtime/pkg/etl"
)

// NewSplitField builds a split stage expanding one record into many.
// The named field must hold a list, or a delimited string when
// 'delimiter' is configured; each element produces one output record
// with the field replaced by that element. An empty list yields no
// records.
func NewSplitField(cfg map[string]interface{}) (etl.Stage, error) {
	field, err := requireString(cfg, "field")
	if err != nil {
		return nil, err
	}
	delimiter, _ := cfg["delimiter"].(string)

	return etl.Split(func(r etl.Record) ([]etl.Record, error) {
		v, ok := r[field]
		if !ok {
			return nil, fmt.Errorf("record has no field %q to split", field)
		}

		var elements []interface{}
		switch val := v.(type) {
		case []interface{}:
			elements = val
		case string:
			if delimiter == "" {
				return nil, fmt.Errorf("field %q is a string but no delimiter is configured", field)
			}
			parts := strings.Split(val, delimiter)
			elements = make([]interface{}, len(parts))
			for i, p := range parts {
				elements[i] = strings.TrimSpace(p)
			}
		default:
			return nil, fmt.Errorf("field %q is not splittable: %v (%T)", field, v, v)
		}

		out := make([]etl.Record, len(elements))
		for i, element := range elements {
			rec := r.Clone()
			rec[field] = element
			out[i] = rec
		}
		return out, nil
	}), nil
}
