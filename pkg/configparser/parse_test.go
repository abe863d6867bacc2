package configparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nestedConfig struct {
	Host    string        `env:"TESTPARSE_HOST" default:"localhost"`
	Port    int           `env:"TESTPARSE_PORT" default:"5432"`
	Timeout time.Duration `env:"TESTPARSE_TIMEOUT" default:"8s"`
}

type rootConfig struct {
	Nested  nestedConfig
	Debug   bool    `env:"TESTPARSE_DEBUG" default:"true"`
	Radius  float64 `env:"TESTPARSE_RADIUS" default:"10.5"`
	NoTag   string
	NoValue string `env:"TESTPARSE_UNSET"`
}

func TestParseEnv_Defaults(t *testing.T) {
	cfg := &rootConfig{}
	require.NoError(t, ParseEnv(cfg))

	assert.Equal(t, "localhost", cfg.Nested.Host)
	assert.Equal(t, 5432, cfg.Nested.Port)
	assert.Equal(t, 8*time.Second, cfg.Nested.Timeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 10.5, cfg.Radius)
	assert.Empty(t, cfg.NoTag)
	assert.Empty(t, cfg.NoValue)
}

func TestParseEnv_EnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("TESTPARSE_HOST", "db.internal")
	t.Setenv("TESTPARSE_TIMEOUT", "250ms")
	t.Setenv("TESTPARSE_RADIUS", "25")

	cfg := &rootConfig{}
	require.NoError(t, ParseEnv(cfg))

	assert.Equal(t, "db.internal", cfg.Nested.Host)
	assert.Equal(t, 250*time.Millisecond, cfg.Nested.Timeout)
	assert.Equal(t, 25.0, cfg.Radius)
}

func TestParseEnv_InvalidValue(t *testing.T) {
	t.Setenv("TESTPARSE_PORT", "not-a-number")

	cfg := &rootConfig{}
	err := ParseEnv(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TESTPARSE_PORT")
}

func TestParseEnv_RejectsNonPointer(t *testing.T) {
	assert.ErrorIs(t, ParseEnv(rootConfig{}), ErrNotStructPointer)

	var nilCfg *rootConfig
	assert.ErrorIs(t, ParseEnv(nilCfg), ErrNotStructPointer)
}
