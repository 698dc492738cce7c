// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Manifest string `json:"manifest,omitempty"`  // Path to candidate manifest (CSV or JSONL)
	Profile  string `json:"profile,omitempty"`   // Path to job profile (JSON or YAML)
	Out      string `json:"out,omitempty"`       // Path for the JSONL results file
	Taxonomy string `json:"taxonomy,omitempty"`  // Path to industry taxonomy JSON
	CacheDir string `json:"cache_dir,omitempty"` // Directory for the file embedding cache

	// Embedding provider
	Provider       string `json:"provider,omitempty"`        // "openai" or "mock"
	EmbedModel     string `json:"embed_model,omitempty"`     // Embedding model name
	EmbedBaseURL   string `json:"embed_base_url,omitempty"`  // OpenAI-compatible API base URL
	EmbedAPIKey    string `json:"embed_api_key,omitempty"`   // API key (env usually wins)
	EmbedDimension int    `json:"embed_dimension,omitempty"` // Expected vector dimension
	EmbedBatchSize int    `json:"embed_batch_size,omitempty"`
	EmbedTimeout   int    `json:"embed_timeout_seconds,omitempty"`

	// Behavior
	Workers     int    `json:"workers,omitempty"`      // Worker pool size
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL (optional)
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed run information
	JSONLogs    bool   `json:"json_logs,omitempty"`    // Emit structured JSON logs
	Debug       bool   `json:"debug,omitempty"`        // Debug log level
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	switch c.Provider {
	case "", "openai", "mock":
	default:
		return fmt.Errorf("config error: unknown provider %q (want openai or mock)", c.Provider)
	}

	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.EmbedDimension < 0 {
		return fmt.Errorf("config error: 'embed_dimension' must be non-negative")
	}
	if c.EmbedBatchSize < 0 {
		return fmt.Errorf("config error: 'embed_batch_size' must be non-negative")
	}
	if c.EmbedTimeout < 0 {
		return fmt.Errorf("config error: 'embed_timeout_seconds' must be non-negative")
	}

	if c.Manifest != "" {
		if _, err := os.Stat(c.Manifest); os.IsNotExist(err) {
			return fmt.Errorf("config error: manifest file not found: %s", c.Manifest)
		}
	}
	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}
	if c.Taxonomy != "" {
		if _, err := os.Stat(c.Taxonomy); os.IsNotExist(err) {
			return fmt.Errorf("config error: taxonomy file not found: %s", c.Taxonomy)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Manifest == "" {
		result.Manifest = defaults.Manifest
	}
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.Out == "" {
		result.Out = defaults.Out
	}
	if result.Taxonomy == "" {
		result.Taxonomy = defaults.Taxonomy
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.EmbedModel == "" {
		result.EmbedModel = defaults.EmbedModel
	}
	if result.EmbedBaseURL == "" {
		result.EmbedBaseURL = defaults.EmbedBaseURL
	}
	if result.EmbedAPIKey == "" {
		result.EmbedAPIKey = defaults.EmbedAPIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.EmbedDimension == 0 {
		result.EmbedDimension = defaults.EmbedDimension
	}
	if result.EmbedBatchSize == 0 {
		result.EmbedBatchSize = defaults.EmbedBatchSize
	}
	if result.EmbedTimeout == 0 {
		result.EmbedTimeout = defaults.EmbedTimeout
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
