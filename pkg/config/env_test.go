package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
)

func TestLoadEnv_Defaults(t *testing.T) {
	for _, key := range []string{"TIMING_LOG_LEVEL", "TIMING_DATA_ROOT", "TIMING_METRICS_ADDR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "info", env.LogLevel)
	assert.Equal(t, "data", env.DataRoot)
	assert.Empty(t, env.MetricsAddr)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("TIMING_LOG_LEVEL", "debug")
	t.Setenv("TIMING_OUTPUT_DIR", "/tmp/out")
	t.Setenv("TIMING_METRICS_ADDR", ":9100")
	t.Setenv("TIMING_WORKERS", "4")
	t.Setenv("BYBIT_API_KEY", "key")
	t.Setenv("BYBIT_TESTNET", "true")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "debug", env.LogLevel)
	assert.Equal(t, "/tmp/out", env.OutputDir)
	assert.Equal(t, ":9100", env.MetricsAddr)
	assert.Equal(t, 4, env.Workers)
	assert.Equal(t, "key", env.Bybit.APIKey)
	assert.True(t, env.Bybit.Testnet)
}

func TestLoadEnv_Invalid(t *testing.T) {
	t.Setenv("TIMING_LOG_LEVEL", "loud")
	_, err := LoadEnv()
	assert.True(t, errs.IsConfigurationError(err))

	t.Setenv("TIMING_LOG_LEVEL", "info")
	t.Setenv("TIMING_WORKERS", "many")
	_, err = LoadEnv()
	assert.True(t, errs.IsConfigurationError(err))
}
