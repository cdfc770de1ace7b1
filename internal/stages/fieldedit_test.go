package stages

import (
	"testing"

	"github.com/rowpipe/runtime/pkg/etl"
)

func TestSetField(t *testing.T) {
	stage, err := NewSetField(map[string]interface{}{
		"field": "year",
		"value": 2020,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := etl.Record{"state": "NY"}
	out, err := runStage(t, stage, []etl.Record{input})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0]["year"] != 2020 {
		t.Errorf("expected year 2020, got %v", out[0]["year"])
	}
	if _, ok := input["year"]; ok {
		t.Error("input record was mutated")
	}
}

func TestSetFieldConfigErrors(t *testing.T) {
	if _, err := NewSetField(map[string]interface{}{"value": 1}); err == nil {
		t.Error("expected error for missing field name")
	}
	if _, err := NewSetField(map[string]interface{}{"field": "year"}); err == nil {
		t.Error("expected error for missing value")
	}
}

func TestRemoveFields(t *testing.T) {
	stage, err := NewRemoveFields(map[string]interface{}{
		"fields": []interface{}{"precinct", "absent"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := runStage(t, stage, []etl.Record{{"state": "NY", "precinct": "001"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out[0]["precinct"]; ok {
		t.Error("expected precinct to be removed")
	}
	if out[0]["state"] != "NY" {
		t.Errorf("expected state to survive, got %v", out[0])
	}
}

func TestRemoveFieldsConfigErrors(t *testing.T) {
	if _, err := NewRemoveFields(map[string]interface{}{}); err == nil {
		t.Error("expected error for missing fields list")
	}
	if _, err := NewRemoveFields(map[string]interface{}{"fields": []interface{}{}}); err == nil {
		t.Error("expected error for empty fields list")
	}
	if _, err := NewRemoveFields(map[string]interface{}{"fields": []interface{}{1}}); err == nil {
		t.Error("expected error for non-string field name")
	}
}

func TestRenameFieldsStage(t *testing.T) {
	stage, err := NewRenameFields(map[string]interface{}{
		"mapping": map[string]interface{}{
			"st":    "state",
			"noise": "",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := runStage(t, stage, []etl.Record{{"st": "NY", "noise": "x", "votes": 5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := etl.Record{"state": "NY", "votes": 5}
	if len(out) != 1 || out[0]["state"] != "NY" || out[0]["votes"] != 5 {
		t.Errorf("expected %v, got %v", want, out)
	}
	if _, ok := out[0]["noise"]; ok {
		t.Error("expected field mapped to empty string to be dropped")
	}
	if _, ok := out[0]["st"]; ok {
		t.Error("expected original field name to be gone")
	}
}

func TestRenameFieldsStageConfigErrors(t *testing.T) {
	if _, err := NewRenameFields(map[string]interface{}{}); err == nil {
		t.Error("expected error for missing mapping")
	}
	if _, err := NewRenameFields(map[string]interface{}{
		"mapping": map[string]interface{}{},
	}); err == nil {
		t.Error("expected error for empty mapping")
	}
	if _, err := NewRenameFields(map[string]interface{}{
		"mapping": map[string]interface{}{"st": 42},
	}); err == nil {
		t.Error("expected error for non-string target name")
	}
}
