package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionkit/sessionkit/config"
)

type serverConfig struct {
	Port    int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	Timeout time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"30s"`
}

type requiredConfig struct {
	Secret string `env:"TEST_CFG_REQUIRED_SECRET,required"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg serverConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoad_Caching(t *testing.T) {
	var first serverConfig
	require.NoError(t, config.Load(&first))

	// A changed environment must not affect an already-cached type.
	t.Setenv("TEST_CFG_PORT", "9999")

	var second serverConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, first, second)
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg requiredConfig
	assert.Error(t, config.Load(&cfg))
}

func TestLoad_InvalidTarget(t *testing.T) {
	assert.ErrorIs(t, config.Load(nil), config.ErrInvalidConfig)
	assert.ErrorIs(t, config.Load("not a struct"), config.ErrInvalidConfig)

	var cfg *serverConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrInvalidConfig)

	n := 42
	assert.ErrorIs(t, config.Load(&n), config.ErrInvalidConfig)
}

func TestMustLoad_PanicsOnFailure(t *testing.T) {
	assert.Panics(t, func() {
		config.MustLoad(nil)
	})
}
