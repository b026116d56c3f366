package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Presets holds YAML overlays applied on top of DefaultConfig, keyed by
// scenario then preset name.
var Presets = map[string]map[string]string{
	"particles": {
		"sandbox": `
scenario: particles
`,
		"crowd": `
scenario: particles
particles: {count: 1200, radius: 3, min_speed: 50, max_speed: 150}
`,
		"elastic": `
scenario: particles
collision: {friction: 0, spin_retention: 1}
particles: {count: 200, max_spin: 0}
`,
		"sticky": `
scenario: particles
collision: {restitution: 0.6, wall_restitution: 0.8, friction: 1.0}
particles: {count: 300}
`,
		"gas": `
scenario: particles
collision: {friction: 0}
particles: {count: 800, radius: 2, max_spin: 0}
`,
	},
	"solar": {
		"system": `
scenario: solar
`,
		"fast": `
scenario: solar
time_scale: 30
`,
		"long-trails": `
scenario: solar
orbital: {trail_limit: 2000, trail_every: 1}
`,
	},
	"nbody": {
		"cluster": `
scenario: nbody
orbital: {bodies: 8}
`,
		"pair": `
scenario: nbody
orbital: {bodies: 2}
`,
	},
	"binary": {
		"equal": `
scenario: binary
`,
	},
	"pendulum": {
		"chaos": `
scenario: pendulum
`,
		"gentle": `
scenario: pendulum
pendulum: {theta1_deg: 20, theta2_deg: 20}
`,
		"heavy-tip": `
scenario: pendulum
pendulum: {m1: 10, m2: 40}
`,
		"unequal": `
scenario: pendulum
pendulum: {l1: 100, l2: 200, trail_limit: 2000}
`,
	},
}

// GetPreset returns DefaultConfig with the named overlay applied.
func GetPreset(scenario, preset string) (*Config, error) {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, scenario)
	}
	overlay, ok := scenarioPresets[preset]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, preset, ListPresets(scenario))
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(overlay), cfg); err != nil {
		return nil, fmt.Errorf("preset %s/%s: %w", scenario, preset, err)
	}
	return cfg, nil
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
