package stages

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/rowpipe/runtime/pkg/etl"
)

// NewExprTransform builds a transform stage from a map of field names
// to expressions. Each expression is compiled once and evaluated per
// record with the record's fields as variables; its result is assigned
// to the named field on a clone of the record.
func NewExprTransform(cfg map[string]interface{}) (etl.Stage, error) {
	fieldsCfg, err := mapSection(cfg, "fields")
	if err != nil {
		return nil, err
	}
	if len(fieldsCfg) == 0 {
		return nil, fmt.Errorf("field %q must not be empty", "fields")
	}

	type compiledField struct {
		name    string
		program *vm.Program
	}
	compiled := make([]compiledField, 0, len(fieldsCfg))
	for name, raw := range fieldsCfg {
		expression, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expression for field %q must be a string, got %T", name, raw)
		}
		program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("compiling expression for field %q: %w", name, err)
		}
		compiled = append(compiled, compiledField{name: name, program: program})
	}
	// Deterministic assignment order, so later fields can depend on
	// earlier ones.
	sort.Slice(compiled, func(i, j int) bool { return compiled[i].name < compiled[j].name })

	return etl.Transform(func(r etl.Record) (etl.Record, error) {
		out := r.Clone()
		for _, cf := range compiled {
			result, err := expr.Run(cf.program, map[string]interface{}(out))
			if err != nil {
				return nil, fmt.Errorf("evaluating expression for field %q: %w", cf.name, err)
			}
			out[cf.name] = result
		}
		return out, nil
	}), nil
}

// NewExprFilter builds a filter stage from a boolean expression. The
// expression is compiled once and evaluated per record; records where
// it yields true are kept.
func NewExprFilter(cfg map[string]interface{}) (etl.Stage, error) {
	expression, err := requireString(cfg, "expression")
	if err != nil {
		return nil, err
	}
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compiling filter expression: %w", err)
	}

	return etl.Filter(func(r etl.Record) (bool, error) {
		result, err := expr.Run(program, map[string]interface{}(r))
		if err != nil {
			return false, fmt.Errorf("evaluating filter expression: %w", err)
		}
		keep, ok := result.(bool)
		if !ok {
			return false, fmt.Errorf("filter expression must yield a boolean, got %v (%T)", result, result)
		}
		return keep, nil
	}), nil
}
