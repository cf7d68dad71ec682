package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSystemConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultSystemConfig()
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 500, cfg.RetryDelayMs)
	assert.Equal(t, 600000, cfg.LLMTimeoutMs)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaDefaultURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DebugResponses)
}

func TestLoadSystemConfigMissingFile(t *testing.T) {
	t.Parallel()

	cfg := LoadSystemConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, DefaultSystemConfig(), cfg)
}

func TestLoadSystemConfigCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "system.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	cfg := LoadSystemConfig(path)
	assert.Equal(t, DefaultSystemConfig(), cfg)
}

func TestLoadSystemConfigPartialOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "system.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_retries": 7, "log_level": "debug"}`), 0644))

	cfg := LoadSystemConfig(path)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unspecified fields keep their defaults
	assert.Equal(t, 500, cfg.RetryDelayMs)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.LLM = []byte(`{"main": {"providers": []}}`)
	assert.NoError(t, cfg.Validate())
}
