package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"profile": "profile.json",
		"out": "scores.jsonl",
		"provider": "openai",
		"embed_model": "text-embedding-3-small",
		"workers": 8,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "profile.json", cfg.Profile)
	assert.Equal(t, "scores.jsonl", cfg.Out)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbedModel)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := &Config{Provider: "gemini"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestValidate_NegativeValues(t *testing.T) {
	cfg := &Config{Workers: -1}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestValidate_MissingFiles(t *testing.T) {
	cfg := &Config{Manifest: "/nonexistent/manifest.csv"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "manifest file not found")
}

func TestValidate_EmptyConfigOK(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Provider: "openai", Workers: 2}
	defaults := Config{
		Out:      "scores.jsonl",
		CacheDir: ".jdfit-cache",
		Provider: "mock",
		Workers:  4,
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Explicit values win, empties fill from defaults.
	assert.Equal(t, "openai", merged.Provider)
	assert.Equal(t, 2, merged.Workers)
	assert.Equal(t, "scores.jsonl", merged.Out)
	assert.Equal(t, ".jdfit-cache", merged.CacheDir)
}
