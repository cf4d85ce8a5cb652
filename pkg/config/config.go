// Package config provides configuration loading and management for mammocad.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Tissue segmentation parameters
	Tissue struct {
		// Threshold is the pixel intensity (0-255) above which a pixel
		// counts as tissue rather than background
		Threshold float64 `yaml:"threshold"`
	} `yaml:"tissue"`

	// Region detection parameters
	Detection struct {
		// Threshold is the activation level above which a heatmap cell
		// belongs to a candidate region
		Threshold float64 `yaml:"threshold"`

		// MinArea is the minimum region area in original-image pixels
		MinArea float64 `yaml:"minArea"`

		// MinTissueOccupancy is the minimum tissue fraction a box must
		// cover to be retained
		MinTissueOccupancy float64 `yaml:"minTissueOccupancy"`

		// MaxRegions caps the number of regions per image
		MaxRegions int `yaml:"maxRegions"`
	} `yaml:"detection"`

	// Heatmap rendering parameters
	Overlay struct {
		// Alpha is the heatmap blend factor over tissue pixels
		Alpha float64 `yaml:"alpha"`

		// Gamma is the contrast exponent applied after normalization
		Gamma float64 `yaml:"gamma"`

		// FallbackSigma is the Gaussian smoothing used by the
		// intensity-based fallback
		FallbackSigma float64 `yaml:"fallbackSigma"`

		// FallbackGamma is the fallback's bright-region emphasis exponent
		FallbackGamma float64 `yaml:"fallbackGamma"`
	} `yaml:"overlay"`

	// Output parameters
	Output struct {
		// SaveIntermediaryResults determines whether to save
		// intermediary processing results
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Tissue.Threshold = 15

	cfg.Detection.Threshold = 0.5
	cfg.Detection.MinArea = 50
	cfg.Detection.MinTissueOccupancy = 0.4
	cfg.Detection.MaxRegions = 10

	cfg.Overlay.Alpha = 0.5
	cfg.Overlay.Gamma = 0.5
	cfg.Overlay.FallbackSigma = 3.0
	cfg.Overlay.FallbackGamma = 0.7

	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
