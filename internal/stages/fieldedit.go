package stages

import (
	"fmt"

	"github.com/rowpipe/runtime/pkg/etl"
)

// NewSetField builds a transform stage assigning a constant value to
// one field on every record.
func NewSetField(cfg map[string]interface{}) (etl.Stage, error) {
	field, err := requireString(cfg, "field")
	if err != nil {
		return nil, err
	}
	value, ok := cfg["value"]
	if !ok {
		return nil, fmt.Errorf("required field %q is missing", "value")
	}

	return etl.Transform(func(r etl.Record) (etl.Record, error) {
		out := r.Clone()
		out[field] = value
		return out, nil
	}), nil
}

// NewRemoveFields builds a transform stage dropping the named fields
// from every record. Fields absent from a record are ignored.
func NewRemoveFields(cfg map[string]interface{}) (etl.Stage, error) {
	fields, err := stringSlice(cfg, "fields")
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("field %q must not be empty", "fields")
	}

	return etl.Transform(func(r etl.Record) (etl.Record, error) {
		out := r.Clone()
		for _, f := range fields {
			delete(out, f)
		}
		return out, nil
	}), nil
}

// NewRenameFields builds a transform stage renaming fields through a
// mapping. A field mapped to the empty string is dropped.
func NewRenameFields(cfg map[string]interface{}) (etl.Stage, error) {
	mappingCfg, err := mapSection(cfg, "mapping")
	if err != nil {
		return nil, err
	}
	if len(mappingCfg) == 0 {
		return nil, fmt.Errorf("field %q must not be empty", "mapping")
	}

	mapping := make(map[string]string, len(mappingCfg))
	for from, to := range mappingCfg {
		name, ok := to.(string)
		if !ok {
			return nil, fmt.Errorf("mapping for field %q must be a string, got %T", from, to)
		}
		mapping[from] = name
	}

	return etl.Transform(etl.RenameFields(mapping)), nil
}
