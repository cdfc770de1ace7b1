package stages

import (
	"fmt"

	"github.com/rowpipe/runtime/pkg/etl"
)

// NewNormalize builds a transform stage rewriting field values per a
// rule set. Every field a record carries must have a rule; the rule set
// doubles as a field whitelist.
//
// Each rule is one of:
//
//	{"keep": true}          pass the field through unchanged
//	{"fold": true}          lowercase, trim, strip diacritics
//	{"map": {"Y": "yes"}}   rewrite listed string values
func NewNormalize(cfg map[string]interface{}) (etl.Stage, error) {
	rulesCfg, err := mapSection(cfg, "rules")
	if err != nil {
		return nil, err
	}
	if len(rulesCfg) == 0 {
		return nil, fmt.Errorf("field %q must not be empty", "rules")
	}

	rules := make(map[string]etl.ValueRule, len(rulesCfg))
	for field, raw := range rulesCfg {
		ruleCfg, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("rule for field %q must be a mapping, got %T", field, raw)
		}
		rule, err := parseValueRule(field, ruleCfg)
		if err != nil {
			return nil, err
		}
		rules[field] = rule
	}

	return etl.Transform(etl.ValueNormalizer(rules)), nil
}

func parseValueRule(field string, cfg map[string]interface{}) (etl.ValueRule, error) {
	variants := 0
	var rule etl.ValueRule

	if keep, ok := cfg["keep"].(bool); ok && keep {
		variants++
		rule = etl.KeepValues()
	}
	if fold, ok := cfg["fold"].(bool); ok && fold {
		variants++
		rule = etl.FoldValues()
	}
	if mapping, ok := cfg["map"].(map[string]interface{}); ok {
		variants++
		rule = etl.MapValues(mapping)
	}

	if variants == 0 {
		return etl.ValueRule{}, fmt.Errorf("rule for field %q must set one of 'keep', 'fold', 'map'", field)
	}
	if variants > 1 {
		return etl.ValueRule{}, fmt.Errorf("rule for field %q sets multiple variants, want exactly one", field)
	}
	return rule, nil
}
