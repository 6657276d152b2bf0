// Package config provides configuration loading for the simulator.
// Defaults are embedded; a user file only overrides the fields it sets.
// A loaded config is immutable for the lifetime of an ecosystem instance.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all recognized options.
type Config struct {
	Ecosystem  EcosystemConfig  `yaml:"ecosystem"`
	Simulation SimulationConfig `yaml:"simulation"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
}

// EcosystemConfig holds resource pool parameters.
type EcosystemConfig struct {
	InitialResources    float64 `yaml:"initial_resources"`
	MaxResourceCapacity float64 `yaml:"max_resource_capacity"`
	ReplenishmentRate   float64 `yaml:"replenishment_rate"`
	Seed                int64   `yaml:"seed"`
	SeasonalAmplitude   float64 `yaml:"seasonal_amplitude"` // 0 = flat replenishment
	SeasonalPeriod      float64 `yaml:"seasonal_period"`    // generations per noise cycle
}

// SimulationConfig holds population model parameters.
type SimulationConfig struct {
	StarvationThreshold float64 `yaml:"starvation_threshold"`
}

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Load reads configuration from a YAML file merged over the embedded
// defaults. An empty path uses the defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulator cannot run with.
func (c *Config) Validate() error {
	if t := c.Simulation.StarvationThreshold; t <= 0 || t >= 1 {
		return fmt.Errorf("starvation_threshold %g must be in (0,1)", t)
	}
	if c.Ecosystem.InitialResources < 0 {
		return fmt.Errorf("initial_resources %g cannot be negative", c.Ecosystem.InitialResources)
	}
	if c.Ecosystem.MaxResourceCapacity < 0 {
		return fmt.Errorf("max_resource_capacity %g cannot be negative", c.Ecosystem.MaxResourceCapacity)
	}
	if c.Ecosystem.ReplenishmentRate < 0 {
		return fmt.Errorf("replenishment_rate %g cannot be negative", c.Ecosystem.ReplenishmentRate)
	}
	if c.Ecosystem.SeasonalAmplitude < 0 || c.Ecosystem.SeasonalAmplitude > 1 {
		return fmt.Errorf("seasonal_amplitude %g must be in [0,1]", c.Ecosystem.SeasonalAmplitude)
	}
	if c.Ecosystem.SeasonalAmplitude > 0 && c.Ecosystem.SeasonalPeriod <= 0 {
		return fmt.Errorf("seasonal_period %g must be > 0 when seasonal variation is enabled", c.Ecosystem.SeasonalPeriod)
	}
	return nil
}

// SlogLevel maps the configured level string onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
