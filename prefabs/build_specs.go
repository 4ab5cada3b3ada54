package prefabs

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// DecodeComponentSpec decodes raw, a loosely typed YAML node such as a
// spawn's overrides, on top of base. Keys missing from raw keep base's
// values.
func DecodeComponentSpec[T any](raw any, base T) (T, error) {
	if raw == nil {
		return base, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return base, fmt.Errorf("prefabs: encode overrides: %w", err)
	}
	out := base
	if err := yaml.Unmarshal(b, &out); err != nil {
		return base, fmt.Errorf("prefabs: decode overrides: %w", err)
	}
	return out, nil
}

// EnemyFor returns the enemy spec for one spawn, with its overrides applied.
func EnemyFor(base EnemySpec, spawn EnemySpawnSpec) (EnemySpec, error) {
	var raw any
	if len(spawn.Overrides) > 0 {
		raw = spawn.Overrides
	}
	spec, err := DecodeComponentSpec(raw, base)
	if err != nil {
		return base, fmt.Errorf("prefabs: enemy %s: %w", spawn.Name, err)
	}
	if spawn.Name != "" {
		spec.Name = spawn.Name
	}
	return spec, nil
}

// InputAt returns the script step active at time t. Steps are taken in
// order of At; before the first step the zero step applies.
func (s SimSpec) InputAt(t float64) SimStepSpec {
	steps := append([]SimStepSpec(nil), s.Script...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })
	var cur SimStepSpec
	for _, st := range steps {
		if st.At > t {
			break
		}
		cur = st
	}
	return cur
}
