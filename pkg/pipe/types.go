// Package pipe defines the public pipeline definition types shared by
// the config parser, the factory, and the runtime executor.
package pipe

import "time"

// Definition is a fully parsed pipeline definition.
type Definition struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Source      SourceConfig  `json:"source" yaml:"source"`
	Stages      []StageConfig `json:"stages,omitempty" yaml:"stages,omitempty"`
	Sink        SinkConfig    `json:"sink" yaml:"sink"`
}

// SourceConfig selects and configures the record source.
type SourceConfig struct {
	Type   string                 `json:"type" yaml:"type"`
	Config map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// StageConfig selects and configures one pipeline stage.
type StageConfig struct {
	Type   string                 `json:"type" yaml:"type"`
	Config map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// SinkConfig selects and configures the record sink.
type SinkConfig struct {
	Type   string                 `json:"type" yaml:"type"`
	Config map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// RunStatus is the terminal state of a pipeline run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunResult summarizes one pipeline execution.
type RunResult struct {
	RunID       string        `json:"run_id"`
	PipelineID  string        `json:"pipeline_id"`
	Status      RunStatus     `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Duration    time.Duration `json:"duration"`
	RecordsOut  int           `json:"records_out"`
	Error       string        `json:"error,omitempty"`
}
