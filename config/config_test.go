package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", conf.Addr)
	assert.Equal(t, "info", conf.LogLevel)
	assert.Equal(t, "openai", conf.ModelProvider)
	assert.Equal(t, 12, conf.MaxRounds)
	assert.Equal(t, 30, conf.TokenTTLMinutes)
	assert.False(t, conf.StrictAnalyzerRouting)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("MODEL_PROVIDER", "anthropic")
	t.Setenv("STRICT_ANALYZER_ROUTING", "true")
	t.Setenv("MAX_ROUNDS", "20")

	conf, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", conf.Addr)
	assert.Equal(t, "anthropic", conf.ModelProvider)
	assert.True(t, conf.StrictAnalyzerRouting)
	assert.Equal(t, 20, conf.MaxRounds)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RAPIDAPI_KEY=from-file\nLOG_LEVEL=debug\n"), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", conf.RapidAPIKey)
	assert.Equal(t, "debug", conf.LogLevel)

	t.Cleanup(func() {
		os.Unsetenv("RAPIDAPI_KEY")
		os.Unsetenv("LOG_LEVEL")
	})
}

func TestLoadMissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}
