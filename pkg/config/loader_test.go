package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/meterkit/pkg/config"
)

type testConfig struct {
	Host string `env:"TEST_CONFIG_HOST" envDefault:"localhost"`
	Port int    `env:"TEST_CONFIG_PORT" envDefault:"6379"`
}

type requiredConfig struct {
	Secret string `env:"TEST_CONFIG_SECRET,required"`
}

func TestLoad(t *testing.T) {
	// t.Setenv forbids t.Parallel, and the loader cache is process-global,
	// so these subtests run sequentially with explicit resets.

	t.Run("defaults apply", func(t *testing.T) {
		config.ResetCache()

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 6379, cfg.Port)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("TEST_CONFIG_HOST", "redis.internal")
		t.Setenv("TEST_CONFIG_PORT", "6380")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "redis.internal", cfg.Host)
		assert.Equal(t, 6380, cfg.Port)
	})

	t.Run("cached per type", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("TEST_CONFIG_HOST", "first")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		require.Equal(t, "first", cfg.Host)

		// a later env change is invisible without a reset
		t.Setenv("TEST_CONFIG_HOST", "second")
		var again testConfig
		require.NoError(t, config.Load(&again))
		assert.Equal(t, "first", again.Host)

		config.ResetCache()
		var fresh testConfig
		require.NoError(t, config.Load(&fresh))
		assert.Equal(t, "second", fresh.Host)
	})

	t.Run("missing required variable", func(t *testing.T) {
		config.ResetCache()

		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		config.ResetCache()

		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		config.ResetCache()

		var cfg requiredConfig
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})

	t.Run("succeeds with defaults", func(t *testing.T) {
		config.ResetCache()

		var cfg testConfig
		assert.NotPanics(t, func() { config.MustLoad(&cfg) })
		assert.Equal(t, "localhost", cfg.Host)
	})
}
