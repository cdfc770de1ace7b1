// Package runtime executes pipeline definitions: it builds the source,
// stages, and sink from a definition and drains the record stream
// through them.
package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rowpipe/runtime/internal/factory"
	"github.com/rowpipe/runtime/internal/logger"
	"github.com/rowpipe/runtime/internal/sinks"
	"github.com/rowpipe/runtime/pkg/etl"
	"github.com/rowpipe/runtime/pkg/pipe"
)

// Executor runs pipeline definitions.
type Executor struct {
	// DryRun replaces the configured sink with an in-memory one, so
	// the pipeline runs end to end without writing output.
	DryRun bool
}

// NewExecutor creates an executor.
func NewExecutor(dryRun bool) *Executor {
	return &Executor{DryRun: dryRun}
}

// Execute runs one pipeline definition to completion. It returns a
// RunResult in all cases; the error mirrors the result's failure state
// so callers can use either.
func (e *Executor) Execute(ctx context.Context, def *pipe.Definition) (*pipe.RunResult, error) {
	var sink sinks.Sink
	if e.DryRun {
		sink = sinks.NewMemorySink()
	} else {
		var err error
		sink, err = factory.CreateSink(def.Sink)
		if err != nil {
			return failedResult(def, "", time.Now(), err), err
		}
	}
	return e.executeWithSink(ctx, def, sink)
}

// ExecuteWithSink runs a definition with the given sink in place of
// the configured one.
func (e *Executor) ExecuteWithSink(ctx context.Context, def *pipe.Definition, sink sinks.Sink) (*pipe.RunResult, error) {
	return e.executeWithSink(ctx, def, sink)
}

func (e *Executor) executeWithSink(ctx context.Context, def *pipe.Definition, sink sinks.Sink) (*pipe.RunResult, error) {
	runID := uuid.NewString()
	startedAt := time.Now()

	runCtx := logger.RunContext{
		RunID:        runID,
		PipelineID:   def.ID,
		PipelineName: def.Name,
		StageIndex:   -1,
		DryRun:       e.DryRun,
	}
	logger.LogRunStart(runCtx)

	result, err := e.run(ctx, def, sink, runID, startedAt, runCtx)
	if closeErr := sink.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("closing sink: %w", closeErr)
		result = failedResult(def, runID, startedAt, err)
	}

	if err != nil {
		logger.LogRunError(runCtx, err, result.Duration)
		return result, err
	}

	logger.LogRunEnd(runCtx, string(result.Status), result.RecordsOut, result.Duration)
	return result, nil
}

func (e *Executor) run(ctx context.Context, def *pipe.Definition, sink sinks.Sink, runID string, startedAt time.Time, runCtx logger.RunContext) (*pipe.RunResult, error) {
	source, err := factory.CreateSource(def.Source)
	if err != nil {
		return failedResult(def, runID, startedAt, err), err
	}

	built, err := factory.CreateStages(def.Stages)
	if err != nil {
		return failedResult(def, runID, startedAt, err), err
	}
	for i, cfg := range def.Stages {
		stageCtx := runCtx
		stageCtx.StageType = cfg.Type
		stageCtx.StageIndex = i
		logger.LogStageStart(stageCtx)
	}

	pipeline := etl.New(source, built...)

	recordsOut := 0
	for record, streamErr := range pipeline.Run() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return failedResult(def, runID, startedAt, ctxErr), ctxErr
		}
		if streamErr != nil {
			return failedResult(def, runID, startedAt, streamErr), streamErr
		}
		if writeErr := sink.Write(record); writeErr != nil {
			return failedResult(def, runID, startedAt, writeErr), writeErr
		}
		recordsOut++
	}

	completedAt := time.Now()
	return &pipe.RunResult{
		RunID:       runID,
		PipelineID:  def.ID,
		Status:      pipe.RunCompleted,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    completedAt.Sub(startedAt),
		RecordsOut:  recordsOut,
	}, nil
}

func failedResult(def *pipe.Definition, runID string, startedAt time.Time, err error) *pipe.RunResult {
	completedAt := time.Now()
	return &pipe.RunResult{
		RunID:       runID,
		PipelineID:  def.ID,
		Status:      pipe.RunFailed,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    completedAt.Sub(startedAt),
		Error:       err.Error(),
	}
}
