// Package stages provides the built-in config-driven pipeline stages:
// expression transforms and filters, script transforms, field editing,
// value normalization, record splitting, and grouped aggregation.
package stages

import "fmt"

func requireString(cfg map[string]interface{}, key string) (string, error) {
	v, ok := cfg[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("required field %q is missing or empty", key)
	}
	return v, nil
}

func stringSlice(cfg map[string]interface{}, key string) ([]string, error) {
	raw, ok := cfg[key]
	if !ok {
		return nil, fmt.Errorf("required field %q is missing", key)
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("field %q must be a list of strings, got %T", key, raw)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field %q must contain strings, got %T at index %d", key, item, i)
		}
		out[i] = s
	}
	return out, nil
}

func mapSection(cfg map[string]interface{}, key string) (map[string]interface{}, error) {
	raw, ok := cfg[key]
	if !ok {
		return nil, fmt.Errorf("required field %q is missing", key)
	}
	section, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("field %q must be a mapping, got %T", key, raw)
	}
	return section, nil
}
