// Package registry provides constructor registries for source, stage,
// and sink modules.
//
// Instead of hard-coded switch statements, modules register their
// constructors by type string, so new module types can be added without
// touching the factory. Built-in types are registered automatically at
// startup via init().
package registry

import (
	"sync"

	"github.com/rowpipe/runtime/internal/sinks"
	"github.com/rowpipe/runtime/pkg/etl"
	"github.com/rowpipe/runtime/pkg/pipe"
)

// SourceConstructor creates a record source from configuration.
type SourceConstructor func(cfg pipe.SourceConfig) (etl.Source, error)

// StageConstructor creates a pipeline stage from configuration. The
// index is the stage's position in the pipeline, used in error
// messages.
type StageConstructor func(cfg pipe.StageConfig, index int) (etl.Stage, error)

// SinkConstructor creates a record sink from configuration.
type SinkConstructor func(cfg pipe.SinkConfig) (sinks.Sink, error)

var (
	sourceMu       sync.RWMutex
	sourceRegistry = make(map[string]SourceConstructor)

	stageMu       sync.RWMutex
	stageRegistry = make(map[string]StageConstructor)

	sinkMu       sync.RWMutex
	sinkRegistry = make(map[string]SinkConstructor)
)

// RegisterSource registers a source constructor by type string.
// Registering an already registered type overwrites the previous
// constructor. Safe for concurrent use.
func RegisterSource(sourceType string, constructor SourceConstructor) {
	sourceMu.Lock()
	defer sourceMu.Unlock()
	sourceRegistry[sourceType] = constructor
}

// RegisterStage registers a stage constructor by type string.
// Registering an already registered type overwrites the previous
// constructor. Safe for concurrent use and typically called from
// init() functions.
func RegisterStage(stageType string, constructor StageConstructor) {
	stageMu.Lock()
	defer stageMu.Unlock()
	stageRegistry[stageType] = constructor
}

// RegisterSink registers a sink constructor by type string.
// Registering an already registered type overwrites the previous
// constructor. Safe for concurrent use.
func RegisterSink(sinkType string, constructor SinkConstructor) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	sinkRegistry[sinkType] = constructor
}

// GetSourceConstructor returns the constructor registered for a source
// type, or nil when none is registered.
func GetSourceConstructor(sourceType string) SourceConstructor {
	sourceMu.RLock()
	defer sourceMu.RUnlock()
	return sourceRegistry[sourceType]
}

// GetStageConstructor returns the constructor registered for a stage
// type, or nil when none is registered.
func GetStageConstructor(stageType string) StageConstructor {
	stageMu.RLock()
	defer stageMu.RUnlock()
	return stageRegistry[stageType]
}

// GetSinkConstructor returns the constructor registered for a sink
// type, or nil when none is registered.
func GetSinkConstructor(sinkType string) SinkConstructor {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return sinkRegistry[sinkType]
}

// ListSourceTypes returns all registered source type names.
func ListSourceTypes() []string {
	sourceMu.RLock()
	defer sourceMu.RUnlock()
	types := make([]string, 0, len(sourceRegistry))
	for t := range sourceRegistry {
		types = append(types, t)
	}
	return types
}

// ListStageTypes returns all registered stage type names.
func ListStageTypes() []string {
	stageMu.RLock()
	defer stageMu.RUnlock()
	types := make([]string, 0, len(stageRegistry))
	for t := range stageRegistry {
		types = append(types, t)
	}
	return types
}

// ClearRegistries removes all registered constructors. Intended for
// tests; call the registerBuiltin functions to restore the built-in
// types afterwards.
func ClearRegistries() {
	sourceMu.Lock()
	sourceRegistry = make(map[string]SourceConstructor)
	sourceMu.Unlock()

	stageMu.Lock()
	stageRegistry = make(map[string]StageConstructor)
	stageMu.Unlock()

	sinkMu.Lock()
	sinkRegistry = make(map[string]SinkConstructor)
	sinkMu.Unlock()
}

// ListSinkTypes returns all registered sink type names.
func ListSinkTypes() []string {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	types := make([]string, 0, len(sinkRegistry))
	for t := range sinkRegistry {
		types = append(types, t)
	}
	return types
}
