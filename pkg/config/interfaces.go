// Package config loads run configuration from defaults, a JSON file, the
// environment and command line overrides, in that order.
package config

// ConfigManager handles loading, validation and saving of run configurations
type ConfigManager interface {
	// LoadConfig builds a validated configuration. Overrides run last, after
	// the file and the environment have been applied.
	LoadConfig(configFile string, overrides ...Override) (*RunConfig, error)

	// ValidateConfig validates a configuration
	ValidateConfig(cfg *RunConfig) error

	// SaveConfig saves configuration to file
	SaveConfig(cfg *RunConfig, path string) error
}

// Validator interface for configuration validation
type Validator interface {
	Validate(cfg *RunConfig) error
}

// Override mutates a configuration, typically from command line flags
type Override func(cfg *RunConfig)
