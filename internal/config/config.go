// Package config provides configuration loading for pixelate-mcp.
// It reads an optional YAML file and falls back to defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/pixelate-mcp/internal/pixelate"
)

// Environment variables recognised by Load.
const (
	EnvConfigPath = "PIXELATE_MCP_CONFIG"
	EnvLogLevel   = "PIXELATE_MCP_LOG_LEVEL"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	Pixelate struct {
		// TileSize is the default tile side in pixels
		TileSize int `yaml:"tileSize"`

		// Mode is the default strategy: "S" (sequential) or "M" (concurrent)
		Mode string `yaml:"mode"`

		// Workers bounds the concurrent pool; zero uses every available core
		Workers int `yaml:"workers"`
	} `yaml:"pixelate"`

	Progress struct {
		// Capacity bounds the progress queue; zero or less means unbounded
		Capacity int `yaml:"capacity"`

		// Snapshots attaches a full buffer copy to every progress event
		Snapshots bool `yaml:"snapshots"`
	} `yaml:"progress"`

	Output struct {
		// Path is where the one-shot command writes its result
		Path string `yaml:"path"`

		// JPEGQuality is used when the output is a JPEG file (1-100)
		JPEGQuality int `yaml:"jpegQuality"`
	} `yaml:"output"`

	Log struct {
		// Level is "info" or "debug"
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Pixelate.TileSize = 10
	cfg.Pixelate.Mode = "M"
	cfg.Pixelate.Workers = runtime.NumCPU()

	cfg.Progress.Capacity = 64
	cfg.Progress.Snapshots = false

	cfg.Output.Path = "result.jpg"
	cfg.Output.JPEGQuality = 95

	cfg.Log.Level = "info"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// Load reads the file named by PIXELATE_MCP_CONFIG and applies
// PIXELATE_MCP_LOG_LEVEL on top of it.
func Load() (*Config, error) {
	cfg, err := LoadConfig(os.Getenv(EnvConfigPath))
	if err != nil {
		return nil, err
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Pixelate.TileSize <= 0 {
		return fmt.Errorf("pixelate.tileSize must be positive, got %d", c.Pixelate.TileSize)
	}
	if _, err := pixelate.ParseMode(c.Pixelate.Mode, c.Pixelate.Workers); err != nil {
		return fmt.Errorf("pixelate.mode: %w", err)
	}
	if c.Pixelate.Workers < 0 {
		return fmt.Errorf("pixelate.workers must not be negative, got %d", c.Pixelate.Workers)
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpegQuality must be 1-100, got %d", c.Output.JPEGQuality)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.Log.Level == "debug"
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
