package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/pooling-sim/pooling-sim/sim"
)

// Define struct for YAML
type DeviceConfigFile struct {
	Presets map[string]DevicePreset `yaml:"presets"`
}

type DevicePreset struct {
	Counts map[string]int `yaml:"counts"`
}

// GetDeviceConfig reads per-stage unit counts from a YAML preset file.
// Returns nil (no override) when the preset does not exist.
func GetDeviceConfig(path string, preset string) (map[sim.Stage]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg DeviceConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	p, ok := cfg.Presets[preset]
	if !ok {
		return nil, nil
	}
	counts := make(map[sim.Stage]int, len(p.Counts))
	for name, n := range p.Counts {
		counts[sim.Stage(name)] = n
	}
	return counts, nil
}
