package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLiteConfig(t *testing.T) {
	cfg := DefaultLiteConfig()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadLiteConfig_Defaults(t *testing.T) {
	// Clear relevant env vars
	clearEnvVars(t)

	cfg := LoadLiteConfig()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadLiteConfig_EnvironmentOverrides(t *testing.T) {
	clearEnvVars(t)

	// Set environment variables
	os.Setenv("BIOMATCH_DATA_DIR", "/tmp/test-biomatch")
	os.Setenv("BIOMATCH_LOG_LEVEL", "debug")
	os.Setenv("BIOMATCH_LOG_FORMAT", "text")

	defer clearEnvVars(t)

	cfg := LoadLiteConfig()

	assert.Equal(t, "/tmp/test-biomatch", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLiteConfig_FeedbackDBPath(t *testing.T) {
	cfg := &LiteConfig{DataDir: "/home/user/.biomatch"}

	path := cfg.FeedbackDBPath()

	assert.Equal(t, "/home/user/.biomatch/feedback.db", path)
}

func TestLiteConfig_ExportDir(t *testing.T) {
	cfg := &LiteConfig{DataDir: "/home/user/.biomatch"}

	path := cfg.ExportDir()

	assert.Equal(t, "/home/user/.biomatch/exports", path)
}

func TestLiteConfig_EnsureDataDir(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	cfg := &LiteConfig{DataDir: filepath.Join(tmpDir, "biomatch")}

	err = cfg.EnsureDataDir()
	require.NoError(t, err)

	// Verify directories exist
	_, err = os.Stat(cfg.DataDir)
	assert.NoError(t, err)

	_, err = os.Stat(cfg.ExportDir())
	assert.NoError(t, err)
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	vars := []string{
		"BIOMATCH_DATA_DIR",
		"BIOMATCH_TRANSPORT",
		"BIOMATCH_LOG_LEVEL",
		"BIOMATCH_LOG_FORMAT",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
