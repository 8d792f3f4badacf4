package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Threshold    int           `env:"TEST_CFG_THRESHOLD" envDefault:"5"`
	LockDuration time.Duration `env:"TEST_CFG_LOCK_DURATION" envDefault:"30m"`
	LogLevel     string        `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	Debug        bool          `env:"TEST_CFG_DEBUG" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Threshold)
	assert.Equal(t, 30*time.Minute, cfg.LockDuration)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_THRESHOLD", "3")
	t.Setenv("TEST_CFG_LOCK_DURATION", "15m")
	t.Setenv("TEST_CFG_LOG_LEVEL", "debug")
	t.Setenv("TEST_CFG_DEBUG", "true")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Threshold)
	assert.Equal(t, 15*time.Minute, cfg.LockDuration)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Debug)
}

type requiredConfig struct {
	Secret string `env:"TEST_CFG_SECRET,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_RequiredFieldPresent(t *testing.T) {
	t.Setenv("TEST_CFG_SECRET", "secret-123")

	var cfg requiredConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "secret-123", cfg.Secret)
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_THRESHOLD", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
}
