package stages

import (
	"fmt"

	"github.com/rowpipe/runtime/pkg/etl"
)

// NewAggregate builds an aggregate stage grouping records by key
// fields and building output fields per group.
//
// Configuration:
//
//	keys: ["state", "year"]
//	fields:
//	  total: {op: "sum", field: "votes"}
//	  precincts: {op: "count"}
//	  by_candidate: {op: "pivot", pivot_field: "candidate", value_field: "votes"}
//	merge: true
//
// 'fields' names the built output fields. 'merge: true' instead merges
// each group's records into one, requiring agreement on every shared
// field. Exactly one of the two must be configured.
func NewAggregate(cfg map[string]interface{}) (etl.Stage, error) {
	keys, err := stringSlice(cfg, "keys")
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("field %q must not be empty", "keys")
	}

	merge, _ := cfg["merge"].(bool)
	_, hasFields := cfg["fields"]
	if merge && hasFields {
		return nil, fmt.Errorf("cannot configure both 'merge' and 'fields'")
	}
	if !merge && !hasFields {
		return nil, fmt.Errorf("aggregate requires 'fields' or 'merge: true'")
	}

	if merge {
		return etl.Aggregate(etl.KeyFields(keys...), etl.BuildRecord(etl.MergeFields)), nil
	}

	fieldsCfg, err := mapSection(cfg, "fields")
	if err != nil {
		return nil, err
	}
	if len(fieldsCfg) == 0 {
		return nil, fmt.Errorf("field %q must not be empty", "fields")
	}

	builders := make(map[string]etl.FieldBuilder, len(fieldsCfg))
	for name, raw := range fieldsCfg {
		opCfg, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("builder for field %q must be a mapping, got %T", name, raw)
		}
		builder, err := parseFieldBuilder(name, opCfg)
		if err != nil {
			return nil, err
		}
		builders[name] = builder
	}

	return etl.Aggregate(etl.KeyFields(keys...), etl.BuildFields(builders)), nil
}

func parseFieldBuilder(name string, cfg map[string]interface{}) (etl.FieldBuilder, error) {
	op, ok := cfg["op"].(string)
	if !ok || op == "" {
		return nil, fmt.Errorf("builder for field %q is missing 'op'", name)
	}

	switch op {
	case "sum":
		field, err := requireString(cfg, "field")
		if err != nil {
			return nil, fmt.Errorf("builder %q: %w", name, err)
		}
		return etl.SumByField(field), nil
	case "count":
		return etl.Count(), nil
	case "first":
		field, err := requireString(cfg, "field")
		if err != nil {
			return nil, fmt.Errorf("builder %q: %w", name, err)
		}
		return etl.FirstField(field), nil
	case "pivot":
		pivotField, err := requireString(cfg, "pivot_field")
		if err != nil {
			return nil, fmt.Errorf("builder %q: %w", name, err)
		}
		valueField, err := requireString(cfg, "value_field")
		if err != nil {
			return nil, fmt.Errorf("builder %q: %w", name, err)
		}
		return etl.PivotOn(pivotField, valueField), nil
	default:
		return nil, fmt.Errorf("builder %q has unknown op %q", name, op)
	}
}
