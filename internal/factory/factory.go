// Package factory instantiates sources, stages, and sinks from their
// configuration using the module registry.
//
// Built-in types are registered automatically at startup. To add a new
// module type, register its constructor with internal/registry; the
// factory does not need to change.
package factory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rowpipe/runtime/internal/registry"
	"github.com/rowpipe/runtime/internal/sinks"
	"github.com/rowpipe/runtime/pkg/etl"
	"github.com/rowpipe/runtime/pkg/pipe"
)

// CreateSource creates a record source from configuration. Unknown
// types fail with the registered types in the error.
func CreateSource(cfg pipe.SourceConfig) (etl.Source, error) {
	constructor := registry.GetSourceConstructor(cfg.Type)
	if constructor == nil {
		return nil, fmt.Errorf("unknown source type %q (registered: %s)",
			cfg.Type, knownTypes(registry.ListSourceTypes()))
	}
	source, err := constructor(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid %s source config: %w", cfg.Type, err)
	}
	return source, nil
}

// CreateStages creates pipeline stages from configuration, in order.
func CreateStages(cfgs []pipe.StageConfig) ([]etl.Stage, error) {
	if len(cfgs) == 0 {
		return nil, nil
	}

	built := make([]etl.Stage, 0, len(cfgs))
	for i, cfg := range cfgs {
		constructor := registry.GetStageConstructor(cfg.Type)
		if constructor == nil {
			return nil, fmt.Errorf("unknown stage type %q at index %d (registered: %s)",
				cfg.Type, i, knownTypes(registry.ListStageTypes()))
		}
		stage, err := constructor(cfg, i)
		if err != nil {
			return nil, err
		}
		built = append(built, stage)
	}
	return built, nil
}

// CreateSink creates a record sink from configuration. Unknown types
// fail with the registered types in the error.
func CreateSink(cfg pipe.SinkConfig) (sinks.Sink, error) {
	constructor := registry.GetSinkConstructor(cfg.Type)
	if constructor == nil {
		return nil, fmt.Errorf("unknown sink type %q (registered: %s)",
			cfg.Type, knownTypes(registry.ListSinkTypes()))
	}
	sink, err := constructor(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid %s sink config: %w", cfg.Type, err)
	}
	return sink, nil
}

func knownTypes(types []string) string {
	sort.Strings(types)
	return strings.Join(types, ", ")
}
