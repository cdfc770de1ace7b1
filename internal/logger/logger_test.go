package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rowpipe/runtime/internal/logger"
)

func TestLoggerInitialization(t *testing.T) {
	if logger.Logger == nil {
		t.Fatal("Logger should be initialized on package load")
	}
}

func TestSetLevel(t *testing.T) {
	// Should not panic at any level
	logger.SetLevel(slog.LevelDebug)
	logger.SetLevel(slog.LevelInfo)
	logger.SetLevel(slog.LevelWarn)
	logger.SetLevel(slog.LevelError)
}

func captureJSON(t *testing.T, level slog.Level, fn func()) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	original := logger.Logger
	defer func() { logger.Logger = original }()
	logger.Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}))

	fn()

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log output: %v", err)
	}
	return entry
}

func TestWithRun(t *testing.T) {
	entry := captureJSON(t, slog.LevelDebug, func() {
		runLogger := logger.WithRun(logger.RunContext{
			RunID:        "run-abc",
			PipelineID:   "pipeline-123",
			PipelineName: "Vote Totals",
			StageType:    "aggregate",
			StageIndex:   2,
		})
		runLogger.Info("test log")
	})

	if entry["run_id"] != "run-abc" {
		t.Errorf("Expected run_id 'run-abc', got %v", entry["run_id"])
	}
	if entry["pipeline_id"] != "pipeline-123" {
		t.Errorf("Expected pipeline_id 'pipeline-123', got %v", entry["pipeline_id"])
	}
	if entry["pipeline_name"] != "Vote Totals" {
		t.Errorf("Expected pipeline_name 'Vote Totals', got %v", entry["pipeline_name"])
	}
	if entry["stage_type"] != "aggregate" {
		t.Errorf("Expected stage_type 'aggregate', got %v", entry["stage_type"])
	}
	idx, ok := entry["stage_index"].(float64)
	if !ok || int(idx) != 2 {
		t.Errorf("Expected stage_index 2, got %v", entry["stage_index"])
	}
}

func TestWithRunPartialFields(t *testing.T) {
	entry := captureJSON(t, slog.LevelDebug, func() {
		runLogger := logger.WithRun(logger.RunContext{
			PipelineID: "minimal-pipeline",
			StageIndex: -1,
		})
		runLogger.Info("minimal context test")
	})

	if entry["pipeline_id"] != "minimal-pipeline" {
		t.Errorf("Expected pipeline_id 'minimal-pipeline', got %v", entry["pipeline_id"])
	}
	for _, absent := range []string{"run_id", "pipeline_name", "stage_type", "stage_index", "dry_run"} {
		if _, exists := entry[absent]; exists {
			t.Errorf("Expected %s to be absent, got %v", absent, entry[absent])
		}
	}
}

func TestLogRunStart(t *testing.T) {
	entry := captureJSON(t, slog.LevelInfo, func() {
		logger.LogRunStart(logger.RunContext{
			RunID:      "run-456",
			PipelineID: "pipeline-456",
			StageIndex: -1,
			DryRun:     true,
		})
	})

	if entry["msg"] != "run started" {
		t.Errorf("Expected msg 'run started', got %v", entry["msg"])
	}
	if entry["run_id"] != "run-456" {
		t.Errorf("Expected run_id 'run-456', got %v", entry["run_id"])
	}
	if entry["dry_run"] != true {
		t.Errorf("Expected dry_run true, got %v", entry["dry_run"])
	}
}

func TestLogRunEnd(t *testing.T) {
	entry := captureJSON(t, slog.LevelInfo, func() {
		logger.LogRunEnd(logger.RunContext{
			PipelineID: "pipeline-789",
			StageIndex: -1,
		}, "completed", 100, 2500*time.Millisecond)
	})

	if entry["msg"] != "run completed" {
		t.Errorf("Expected msg 'run completed', got %v", entry["msg"])
	}
	if entry["status"] != "completed" {
		t.Errorf("Expected status 'completed', got %v", entry["status"])
	}
	out, ok := entry["records_out"].(float64)
	if !ok || int(out) != 100 {
		t.Errorf("Expected records_out 100, got %v", entry["records_out"])
	}
	if entry["duration"] == nil {
		t.Error("Expected duration to be present")
	}
}

func TestLogRunError(t *testing.T) {
	entry := captureJSON(t, slog.LevelError, func() {
		logger.LogRunError(logger.RunContext{
			PipelineID: "pipeline-error-test",
			StageType:  "transform/expr",
			StageIndex: 1,
		}, errors.New("bad expression"), 30*time.Millisecond)
	})

	if entry["msg"] != "run failed" {
		t.Errorf("Expected msg 'run failed', got %v", entry["msg"])
	}
	if entry["level"] != "ERROR" {
		t.Errorf("Expected level 'ERROR', got %v", entry["level"])
	}
	if entry["error"] != "bad expression" {
		t.Errorf("Expected error 'bad expression', got %v", entry["error"])
	}
	if entry["stage_type"] != "transform/expr" {
		t.Errorf("Expected stage_type 'transform/expr', got %v", entry["stage_type"])
	}
}

func TestHumanHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := logger.NewHumanHandler(&buf, &logger.HumanHandlerOptions{
		Level:     slog.LevelInfo,
		UseColors: false,
	})

	testLogger := slog.New(handler)
	testLogger.Info("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, "ℹ") {
		t.Errorf("Expected output to contain info prefix 'ℹ', got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected output to contain 'key=value', got: %s", output)
	}
}

func TestHumanHandlerLevels(t *testing.T) {
	tests := []struct {
		level          slog.Level
		expectedPrefix string
	}{
		{slog.LevelError, "✗"},
		{slog.LevelWarn, "⚠"},
		{slog.LevelInfo, "ℹ"},
		{slog.LevelDebug, "·"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			handler := logger.NewHumanHandler(&buf, &logger.HumanHandlerOptions{
				Level:     slog.LevelDebug,
				UseColors: false,
			})

			testLogger := slog.New(handler)
			testLogger.Log(context.Background(), tt.level, "test")

			output := buf.String()
			if !strings.Contains(output, tt.expectedPrefix) {
				t.Errorf("Expected output to contain prefix '%s' for level %s, got: %s",
					tt.expectedPrefix, tt.level, output)
			}
		})
	}
}

func TestHumanHandlerDuration(t *testing.T) {
	var buf bytes.Buffer
	handler := logger.NewHumanHandler(&buf, &logger.HumanHandlerOptions{
		Level:     slog.LevelInfo,
		UseColors: false,
	})

	testLogger := slog.New(handler)
	testLogger.Info("duration test", "duration", 2500*time.Millisecond)

	output := buf.String()
	if !strings.Contains(output, "duration=2.50s") {
		t.Errorf("Expected output to contain 'duration=2.50s', got: %s", output)
	}
}

func TestSetFormat(t *testing.T) {
	original := logger.Logger
	defer func() { logger.Logger = original }()

	logger.SetFormat(logger.FormatHuman)
	if logger.Logger == nil {
		t.Fatal("Logger should not be nil after SetFormat")
	}

	logger.SetFormat(logger.FormatJSON)
	if logger.Logger == nil {
		t.Fatal("Logger should not be nil after SetFormat")
	}
}
