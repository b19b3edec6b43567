package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
)

// Manager implements ConfigManager for evolver runs
type Manager struct {
	validator Validator
	// skipEnv disables the environment layer
	skipEnv bool
}

// NewManager creates a configuration manager reading the process environment
func NewManager() *Manager {
	return &Manager{validator: NewRunValidator()}
}

// LoadConfig layers defaults, the JSON file (if any), EVOLVE_* variables and
// overrides, then validates the result
func (m *Manager) LoadConfig(configFile string, overrides ...Override) (*RunConfig, error) {
	cfg := NewDefaultRunConfig()

	if configFile != "" {
		if err := m.loadFromFile(configFile, cfg); err != nil {
			return nil, err
		}
	}

	if !m.skipEnv {
		if err := ApplyEnv(cfg); err != nil {
			return nil, err
		}
	}

	for _, override := range overrides {
		if override != nil {
			override(cfg)
		}
	}

	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays a JSON file. Fields absent from the file keep their
// current values; unknown fields are rejected.
func (m *Manager) loadFromFile(configFile string, cfg *RunConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return everr.NewIOError("config", "LoadConfig", err).WithContext("path", configFile)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return everr.WrapError(err, everr.ErrorCategoryConfiguration, "config", "LoadConfig").
			WithContext("path", configFile)
	}
	return nil
}

// ValidateConfig validates a configuration using the validator
func (m *Manager) ValidateConfig(cfg *RunConfig) error {
	return m.validator.Validate(cfg)
}

// SaveConfig writes cfg as indented JSON, creating parent directories
func (m *Manager) SaveConfig(cfg *RunConfig, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return everr.NewIOError("config", "SaveConfig", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return everr.NewIOError("config", "SaveConfig", err).WithContext("path", path)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return everr.NewIOError("config", "SaveConfig", err).WithContext("path", path)
	}
	return nil
}
