package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application-level configuration: where to find the
// matrix/layer JSON documents and how fast the driver ticks. The wire
// format for the matrix and layer documents themselves is JSON (see
// internal/config), not YAML — this Config only governs the daemon.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Driver  DriverConfig  `yaml:"driver"`
	Logging LoggingConfig `yaml:"logging"`
}

// DeviceConfig names the matrix/layer documents and the output device name.
type DeviceConfig struct {
	MatrixFile string `yaml:"matrix_file"`
	LayersFile string `yaml:"layers_file"`
	OutputName string `yaml:"output_name"`
}

// DriverConfig tunes timing.
type DriverConfig struct {
	TickIntervalMs  int `yaml:"tick_interval_ms"`
	HoldThresholdMs int `yaml:"hold_threshold_ms"`
}

// LoggingConfig carries a log level. It is loaded and saved with the rest
// of the config, but nothing in the daemon reads it: log output is not
// filtered by level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			MatrixFile: "matrix.json",
			LayersFile: "layers.json",
			OutputName: "spacecadet",
		},
		Driver: DriverConfig{
			TickIntervalMs:  1,
			HoldThresholdMs: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from configDir/config.yml, creating it
// with defaults if it doesn't exist yet.
func LoadConfig(configDir string) (*Config, error) {
	configPath := filepath.Join(configDir, "config.yml")
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveConfig(config, configPath); err != nil {
			return config, fmt.Errorf("failed to create default config: %w", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig writes config to configPath, creating its directory if needed.
func SaveConfig(config *Config, configPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
