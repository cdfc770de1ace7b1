package factory

import (
	"strings"
	"testing"

	"github.com/rowpipe/runtime/internal/sinks"
	"github.com/rowpipe/runtime/pkg/pipe"
)

func TestCreateSource(t *testing.T) {
	source, err := CreateSource(pipe.SourceConfig{
		Type: "inline",
		Config: map[string]interface{}{
			"records": []interface{}{map[string]interface{}{"a": 1}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source == nil {
		t.Fatal("expected a source, got nil")
	}
}

func TestCreateSourceUnknownType(t *testing.T) {
	_, err := CreateSource(pipe.SourceConfig{Type: "kafka"})
	if err == nil {
		t.Fatal("expected error for unknown source type")
	}
	if !strings.Contains(err.Error(), `unknown source type "kafka"`) {
		t.Errorf("expected error to name the type, got: %v", err)
	}
	if !strings.Contains(err.Error(), "registered:") {
		t.Errorf("expected error to list registered types, got: %v", err)
	}
}

func TestCreateSourceInvalidConfig(t *testing.T) {
	_, err := CreateSource(pipe.SourceConfig{Type: "csv", Config: map[string]interface{}{}})
	if err == nil {
		t.Fatal("expected error for csv source without a path")
	}
	if !strings.Contains(err.Error(), "invalid csv source config") {
		t.Errorf("expected wrapped config error, got: %v", err)
	}
}

func TestCreateStages(t *testing.T) {
	built, err := CreateStages([]pipe.StageConfig{
		{Type: "filter/expr", Config: map[string]interface{}{"expression": "votes > 0"}},
		{Type: "transform/remove", Config: map[string]interface{}{"fields": []interface{}{"precinct"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(built) != 2 {
		t.Errorf("expected 2 stages, got %d", len(built))
	}
}

func TestCreateStagesEmpty(t *testing.T) {
	built, err := CreateStages(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(built) != 0 {
		t.Errorf("expected no stages, got %d", len(built))
	}
}

func TestCreateStagesUnknownType(t *testing.T) {
	_, err := CreateStages([]pipe.StageConfig{
		{Type: "filter/expr", Config: map[string]interface{}{"expression": "true"}},
		{Type: "enrich"},
	})
	if err == nil {
		t.Fatal("expected error for unknown stage type")
	}
	if !strings.Contains(err.Error(), `unknown stage type "enrich" at index 1`) {
		t.Errorf("expected error to name the type and index, got: %v", err)
	}
	if !strings.Contains(err.Error(), "aggregate") {
		t.Errorf("expected error to list registered types, got: %v", err)
	}
}

func TestCreateStagesInvalidConfig(t *testing.T) {
	_, err := CreateStages([]pipe.StageConfig{
		{Type: "filter/expr", Config: map[string]interface{}{}},
	})
	if err == nil {
		t.Fatal("expected error for filter without an expression")
	}
	if !strings.Contains(err.Error(), "at index 0") {
		t.Errorf("expected error to include the stage index, got: %v", err)
	}
}

func TestCreateSink(t *testing.T) {
	sink, err := CreateSink(pipe.SinkConfig{Type: "discard"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sink.(*sinks.DiscardSink); !ok {
		t.Errorf("expected a DiscardSink, got %T", sink)
	}
}

func TestCreateSinkUnknownType(t *testing.T) {
	_, err := CreateSink(pipe.SinkConfig{Type: "s3"})
	if err == nil {
		t.Fatal("expected error for unknown sink type")
	}
	if !strings.Contains(err.Error(), `unknown sink type "s3"`) {
		t.Errorf("expected error to name the type, got: %v", err)
	}
}

func TestCreateSinkInvalidConfig(t *testing.T) {
	_, err := CreateSink(pipe.SinkConfig{Type: "jsonl", Config: map[string]interface{}{}})
	if err == nil {
		t.Fatal("expected error for jsonl sink without a path")
	}
	if !strings.Contains(err.Error(), "invalid jsonl sink config") {
		t.Errorf("expected wrapped config error, got: %v", err)
	}
}
