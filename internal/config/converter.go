package config

import (
	"fmt"

	"github.com/rowpipe/runtime/pkg/pipe"
)

// ConvertToDefinition converts parsed definition data to a
// pipe.Definition. The data should have been validated against the
// schema first.
//
// The expected structure is:
//
//	{
//	  "schemaVersion": "1.0.0",
//	  "pipeline": {
//	    "id": "...",
//	    "name": "...",
//	    "source": {"type": "...", ...},
//	    "stages": [{"type": "...", ...}],
//	    "sink": {"type": "...", ...}
//	  }
//	}
func ConvertToDefinition(data map[string]interface{}) (*pipe.Definition, error) {
	if data == nil {
		return nil, fmt.Errorf("definition data is nil")
	}

	pipelineData, ok := data["pipeline"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'pipeline' section")
	}

	def := &pipe.Definition{}

	name, ok := pipelineData["name"].(string)
	if !ok {
		return nil, fmt.Errorf("missing required field 'pipeline.name'")
	}
	def.Name = name
	// Fall back to the name when no explicit ID is given.
	def.ID = name
	if id, okID := pipelineData["id"].(string); okID {
		def.ID = id
	}
	if description, okDesc := pipelineData["description"].(string); okDesc {
		def.Description = description
	}

	sourceData, ok := pipelineData["source"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'pipeline.source' section")
	}
	sourceType, sourceCfg, err := splitModuleConfig(sourceData)
	if err != nil {
		return nil, fmt.Errorf("invalid source config: %w", err)
	}
	def.Source = pipe.SourceConfig{Type: sourceType, Config: sourceCfg}

	if stagesData, okStages := pipelineData["stages"].([]interface{}); okStages {
		for i, stageData := range stagesData {
			stageMap, isMap := stageData.(map[string]interface{})
			if !isMap {
				return nil, fmt.Errorf("invalid stage at index %d", i)
			}
			stageType, stageCfg, convertErr := splitModuleConfig(stageMap)
			if convertErr != nil {
				return nil, fmt.Errorf("invalid stage at index %d: %w", i, convertErr)
			}
			def.Stages = append(def.Stages, pipe.StageConfig{Type: stageType, Config: stageCfg})
		}
	}

	sinkData, ok := pipelineData["sink"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'pipeline.sink' section")
	}
	sinkType, sinkCfg, err := splitModuleConfig(sinkData)
	if err != nil {
		return nil, fmt.Errorf("invalid sink config: %w", err)
	}
	def.Sink = pipe.SinkConfig{Type: sinkType, Config: sinkCfg}

	return def, nil
}

// splitModuleConfig separates a raw module map into its type and the
// remaining keys, which become the module's config.
func splitModuleConfig(data map[string]interface{}) (string, map[string]interface{}, error) {
	moduleType, ok := data["type"].(string)
	if !ok {
		return "", nil, fmt.Errorf("missing required field 'type'")
	}

	cfg := make(map[string]interface{}, len(data)-1)
	for key, value := range data {
		if key != "type" {
			cfg[key] = value
		}
	}
	return moduleType, cfg, nil
}
