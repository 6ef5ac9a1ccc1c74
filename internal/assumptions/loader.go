package assumptions

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BaseScenarioID is the scenario served directly by base.yaml, with no
// override applied.
const BaseScenarioID = "base"

// LoadFile reads a YAML document into a raw configuration tree. Empty
// files yield an empty tree.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assumptions file: %w", err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return raw, nil
}

// DeepMerge merges override into base and returns a new tree; neither
// input is mutated. Nested mappings merge recursively; every other value,
// lists included, is replaced wholesale by the override.
func DeepMerge(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base))
	for k, v := range base {
		result[k] = copyValue(v)
	}
	for k, v := range override {
		if baseMap, ok := result[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = DeepMerge(baseMap, overrideMap)
				continue
			}
		}
		result[k] = copyValue(v)
	}
	return result
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = copyValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = copyValue(val)
		}
		return out
	default:
		return v
	}
}

// Decode converts a raw configuration tree into the typed Assumptions
// structure, recording which top-level sections were present.
func Decode(raw map[string]any) (*Assumptions, error) {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode merged assumptions: %w", err)
	}
	a := &Assumptions{}
	if err := yaml.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("decode assumptions: %w", err)
	}
	a.Sections = make(map[string]bool, len(raw))
	for k := range raw {
		a.Sections[k] = true
	}
	return a, nil
}

// LoadScenario loads base.yaml from dir and, for any scenario other than
// "base", deep-merges <scenarioID>.yaml over it when that file exists.
// A scenario without an override file resolves to the base assumptions.
func LoadScenario(scenarioID, dir string) (*Assumptions, error) {
	base, err := LoadFile(filepath.Join(dir, "base.yaml"))
	if err != nil {
		return nil, err
	}

	merged := base
	if scenarioID != BaseScenarioID {
		overridePath := filepath.Join(dir, scenarioID+".yaml")
		if _, statErr := os.Stat(overridePath); statErr == nil {
			override, err := LoadFile(overridePath)
			if err != nil {
				return nil, err
			}
			merged = DeepMerge(base, override)
		}
	}

	return Decode(merged)
}
