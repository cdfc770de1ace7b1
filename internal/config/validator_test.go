package config

import (
	"strings"
	"testing"
)

func validDefinitionData() map[string]interface{} {
	return map[string]interface{}{
		"schemaVersion": "1.0.0",
		"pipeline": map[string]interface{}{
			"id":   "vote-totals",
			"name": "Vote Totals",
			"source": map[string]interface{}{
				"type": "csv",
				"path": "votes.csv",
			},
			"stages": []interface{}{
				map[string]interface{}{
					"type": "aggregate",
					"keys": []interface{}{"state", "year"},
				},
			},
			"sink": map[string]interface{}{
				"type": "jsonl",
				"path": "out.jsonl",
			},
		},
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	result := ValidateDefinition(validDefinitionData())
	if !result.Valid {
		t.Fatalf("expected valid definition, got errors: %v", result.Errors)
	}
}

func TestValidateDefinition_NilData(t *testing.T) {
	result := ValidateDefinition(nil)
	if result.Valid {
		t.Fatal("expected nil data to be invalid")
	}
	if result.Errors[0].Type != "required" {
		t.Errorf("expected error type 'required', got '%s'", result.Errors[0].Type)
	}
}

func TestValidateDefinition_EmptyData(t *testing.T) {
	result := ValidateDefinition(map[string]interface{}{})
	if result.Valid {
		t.Fatal("expected empty data to be invalid")
	}
}

func TestValidateDefinition_MissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{
			name: "missing schemaVersion",
			mutate: func(data map[string]interface{}) {
				delete(data, "schemaVersion")
			},
		},
		{
			name: "missing pipeline name",
			mutate: func(data map[string]interface{}) {
				delete(data["pipeline"].(map[string]interface{}), "name")
			},
		},
		{
			name: "missing source",
			mutate: func(data map[string]interface{}) {
				delete(data["pipeline"].(map[string]interface{}), "source")
			},
		},
		{
			name: "missing sink",
			mutate: func(data map[string]interface{}) {
				delete(data["pipeline"].(map[string]interface{}), "sink")
			},
		},
		{
			name: "stage without type",
			mutate: func(data map[string]interface{}) {
				pipeline := data["pipeline"].(map[string]interface{})
				pipeline["stages"] = []interface{}{map[string]interface{}{"keys": []interface{}{"a"}}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validDefinitionData()
			tt.mutate(data)
			result := ValidateDefinition(data)
			if result.Valid {
				t.Fatal("expected definition to be invalid")
			}
			if len(result.Errors) == 0 {
				t.Fatal("expected at least one validation error")
			}
		})
	}
}

func TestValidateDefinition_BadSchemaVersion(t *testing.T) {
	data := validDefinitionData()
	data["schemaVersion"] = "one"
	result := ValidateDefinition(data)
	if result.Valid {
		t.Fatal("expected invalid schemaVersion to fail")
	}
}

func TestValidateDefinition_ErrorPaths(t *testing.T) {
	data := validDefinitionData()
	delete(data["pipeline"].(map[string]interface{}), "name")
	result := ValidateDefinition(data)
	if result.Valid {
		t.Fatal("expected definition to be invalid")
	}

	found := false
	for _, e := range result.Errors {
		if strings.HasPrefix(e.Path, "/") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected JSON-path error locations, got: %v", result.Errors)
	}
}

func TestEmbeddedSchema(t *testing.T) {
	if len(EmbeddedSchema()) == 0 {
		t.Fatal("embedded schema should not be empty")
	}
}
