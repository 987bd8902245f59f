// Package config provides configuration loading and management for mprview.
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
	// Display parameters
	Display struct {
		// OverrideWindow replaces the automatic intensity window with
		// WindowMin/WindowMax when true
		OverrideWindow bool `yaml:"overrideWindow"`

		// WindowMin is the lower bound of the display intensity window
		WindowMin float64 `yaml:"windowMin"`

		// WindowMax is the upper bound of the display intensity window
		WindowMax float64 `yaml:"windowMax"`
	} `yaml:"display"`

	// Export parameters
	Export struct {
		// Format is the output image format, "png" or "jpg"
		Format string `yaml:"format"`

		// JPEGQuality controls JPEG encoding quality (1-100)
		JPEGQuality int `yaml:"jpegQuality"`

		// UpscaleWidth resamples exported images to this width when > 0
		UpscaleWidth int `yaml:"upscaleWidth"`
	} `yaml:"export"`

	// Cache parameters
	Cache struct {
		// Enabled turns the on-disk volume cache on
		Enabled bool `yaml:"enabled"`

		// Dir is the cache root directory
		Dir string `yaml:"dir"`
	} `yaml:"cache"`

	// Cine parameters
	Cine struct {
		// FPS is the playback rate for cine stepping
		FPS int `yaml:"fps"`
	} `yaml:"cine"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Display.OverrideWindow = false
	cfg.Display.WindowMin = 0
	cfg.Display.WindowMax = 0

	cfg.Export.Format = "png"
	cfg.Export.JPEGQuality = 90
	cfg.Export.UpscaleWidth = 0

	cfg.Cache.Enabled = false
	cfg.Cache.Dir = "mprview_cache"

	cfg.Cine.FPS = 10

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
