package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Simulation.StarvationThreshold)
	assert.Equal(t, 1000.0, cfg.Ecosystem.InitialResources)
	assert.Equal(t, 2000.0, cfg.Ecosystem.MaxResourceCapacity)
	assert.Equal(t, 150.0, cfg.Ecosystem.ReplenishmentRate)
	assert.Equal(t, 0.0, cfg.Ecosystem.SeasonalAmplitude)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileOverridesOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"simulation:\n  starvation_threshold: 0.3\necosystem:\n  replenishment_rate: 20\n",
	), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.Simulation.StarvationThreshold)
	assert.Equal(t, 20.0, cfg.Ecosystem.ReplenishmentRate)
	// Untouched fields keep their defaults.
	assert.Equal(t, 1000.0, cfg.Ecosystem.InitialResources)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold zero", func(c *Config) { c.Simulation.StarvationThreshold = 0 }},
		{"threshold one", func(c *Config) { c.Simulation.StarvationThreshold = 1 }},
		{"negative resources", func(c *Config) { c.Ecosystem.InitialResources = -1 }},
		{"negative replenishment", func(c *Config) { c.Ecosystem.ReplenishmentRate = -1 }},
		{"amplitude above one", func(c *Config) { c.Ecosystem.SeasonalAmplitude = 1.5 }},
		{"amplitude without period", func(c *Config) {
			c.Ecosystem.SeasonalAmplitude = 0.5
			c.Ecosystem.SeasonalPeriod = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Ecosystem.Seed = 99

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), loaded.Ecosystem.Seed)
}
