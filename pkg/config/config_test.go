package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 400, cfg.Simulation.MaxChunks)
	assert.Equal(t, 0.05, cfg.Simulation.MaxStep)
	assert.Equal(t, 12.0, cfg.Interaction.MeleeRange)
	assert.Equal(t, 25.0, cfg.Interaction.StompRadius)
	assert.Equal(t, 80*time.Millisecond, cfg.Destruction.Flash)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kaiju.yaml")
	data := []byte(`seed: 99
simulation:
  max_chunks: 120
destruction:
  flash: 120ms
  lifetime:
    min: 2
    max: 3
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, 120, cfg.Simulation.MaxChunks)
	assert.Equal(t, Range{2, 3}, cfg.Destruction.Lifetime)
	assert.Equal(t, 120*time.Millisecond, cfg.Destruction.Flash)
	// Untouched sections keep their defaults.
	assert.Equal(t, 0.05, cfg.Simulation.MaxStep)
	assert.Equal(t, 3.2, cfg.Geometry.FloorHeight)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero chunk cap", func(c *Config) { c.Simulation.MaxChunks = 0 }, "simulation.max_chunks"},
		{"negative melee range", func(c *Config) { c.Interaction.MeleeRange = -1 }, "interaction.melee_range"},
		{"lit chance above one", func(c *Config) { c.Geometry.WindowLitChance = 1.5 }, "geometry.window_lit_chance"},
		{"inverted mass", func(c *Config) { c.Destruction.Mass = Range{15, 5} }, "destruction.mass"},
		{"zero dust life", func(c *Config) { c.Destruction.DustLife = Range{0, 1} }, "destruction.dust_life.min"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}
