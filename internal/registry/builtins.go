// This file registers all built-in module types during initialization.
package registry

import (
	"fmt"

	"github.com/rowpipe/runtime/internal/sinks"
	"github.com/rowpipe/runtime/internal/stages"
	"github.com/rowpipe/runtime/pkg/etl"
	"github.com/rowpipe/runtime/pkg/pipe"
)

func init() {
	registerBuiltinSources()
	registerBuiltinStages()
	registerBuiltinSinks()
}

func registerBuiltinSources() {
	// csv - delimited file source, one record per row
	RegisterSource("csv", func(cfg pipe.SourceConfig) (etl.Source, error) {
		path, ok := cfg.Config["path"].(string)
		if !ok || path == "" {
			return nil, fmt.Errorf("csv source requires a 'path'")
		}
		var opts []etl.CSVOption
		if delimiter, ok := cfg.Config["delimiter"].(string); ok {
			if len([]rune(delimiter)) != 1 {
				return nil, fmt.Errorf("csv delimiter must be a single character, got %q", delimiter)
			}
			opts = append(opts, etl.WithComma([]rune(delimiter)[0]))
		}
		return etl.NewCSVSource(path, opts...), nil
	})

	// inline - records embedded in the definition, mainly for tests
	// and dry runs
	RegisterSource("inline", func(cfg pipe.SourceConfig) (etl.Source, error) {
		raw, ok := cfg.Config["records"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("inline source requires a 'records' list")
		}
		records := make(etl.SliceSource, len(raw))
		for i, item := range raw {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("inline record at index %d must be an object, got %T", i, item)
			}
			records[i] = etl.Record(m)
		}
		return records, nil
	})
}

func registerBuiltinStages() {
	builtins := map[string]func(map[string]interface{}) (etl.Stage, error){
		// transform/expr - assign fields from compiled expressions
		"transform/expr": stages.NewExprTransform,
		// transform/script - JavaScript transform(record) function
		"transform/script": stages.NewScriptTransform,
		// filter/expr - keep records where a boolean expression holds
		"filter/expr": stages.NewExprFilter,
		// transform/set - assign a constant value to one field
		"transform/set": stages.NewSetField,
		// transform/remove - drop named fields
		"transform/remove": stages.NewRemoveFields,
		// transform/rename - rename fields through a mapping
		"transform/rename": stages.NewRenameFields,
		// transform/normalize - rewrite field values per a strict rule set
		"transform/normalize": stages.NewNormalize,
		// split/field - expand a list-valued field into many records
		"split/field": stages.NewSplitField,
		// aggregate - group by key fields and build output fields
		"aggregate": stages.NewAggregate,
	}

	for stageType, build := range builtins {
		RegisterStage(stageType, func(cfg pipe.StageConfig, index int) (etl.Stage, error) {
			stage, err := build(cfg.Config)
			if err != nil {
				return nil, fmt.Errorf("invalid %s config at index %d: %w", stageType, index, err)
			}
			return stage, nil
		})
	}
}

func registerBuiltinSinks() {
	// csv - delimited file sink, header from the first record
	RegisterSink("csv", func(cfg pipe.SinkConfig) (sinks.Sink, error) {
		path, ok := cfg.Config["path"].(string)
		if !ok || path == "" {
			return nil, fmt.Errorf("csv sink requires a 'path'")
		}
		var comma rune
		if delimiter, ok := cfg.Config["delimiter"].(string); ok {
			if len([]rune(delimiter)) != 1 {
				return nil, fmt.Errorf("csv delimiter must be a single character, got %q", delimiter)
			}
			comma = []rune(delimiter)[0]
		}
		return sinks.NewCSVSink(path, comma)
	})

	// jsonl - JSON lines sink, one object per record
	RegisterSink("jsonl", func(cfg pipe.SinkConfig) (sinks.Sink, error) {
		path, ok := cfg.Config["path"].(string)
		if !ok || path == "" {
			return nil, fmt.Errorf("jsonl sink requires a 'path'")
		}
		return sinks.NewJSONLSink(path)
	})

	// discard - drop all output
	RegisterSink("discard", func(cfg pipe.SinkConfig) (sinks.Sink, error) {
		return sinks.NewDiscardSink(), nil
	})
}
