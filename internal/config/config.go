// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment variable names recognized by FromEnv. A .env file loaded by
// the CLI populates these before the merge.
const (
	EnvBaseURL      = "AUDITOR_LMS_URL"
	EnvToken        = "AUDITOR_LMS_TOKEN"
	EnvTaxonomyPath = "AUDITOR_TAXONOMY"
)

// Config represents the engine configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must
// be provided via CLI flags.
type Config struct {
	// LMS connection
	BaseURL string `json:"lms_url,omitempty" validate:"omitempty,url"` // LMS base URL
	Token   string `json:"token,omitempty"`                            // Web-service token default

	// Taxonomy
	TaxonomyPath string `json:"taxonomy,omitempty"` // Path to the taxonomy JSON document

	// Behavior
	TimeoutSeconds   int  `json:"timeout_seconds,omitempty" validate:"min=0"` // HTTP timeout for LMS calls
	ConcurrencyLimit int  `json:"concurrency,omitempty" validate:"min=0"`     // Parallel resource evaluations
	Verbose          bool `json:"verbose,omitempty"`                          // Print detailed debug information
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

// FromEnv builds a Config from the recognized environment variables.
func FromEnv() Config {
	return Config{
		BaseURL:      os.Getenv(EnvBaseURL),
		Token:        os.Getenv(EnvToken),
		TaxonomyPath: os.Getenv(EnvTaxonomyPath),
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.TaxonomyPath != "" {
		if _, err := os.Stat(c.TaxonomyPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: taxonomy file not found: %s", c.TaxonomyPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to layer CLI flags over the config file over the
// environment.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.Token == "" {
		result.Token = defaults.Token
	}
	if result.TaxonomyPath == "" {
		result.TaxonomyPath = defaults.TaxonomyPath
	}

	// Int fields: use default if zero
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.ConcurrencyLimit == 0 {
		result.ConcurrencyLimit = defaults.ConcurrencyLimit
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Timeout returns the configured HTTP timeout, or zero when unset so the
// LMS client falls back to its own default.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// String renders the effective configuration for verbose output, with the
// token redacted.
func (c *Config) String() string {
	token := ""
	if c.Token != "" {
		token = "(set)"
	}
	return "lms_url=" + c.BaseURL +
		" taxonomy=" + c.TaxonomyPath +
		" timeout_seconds=" + strconv.Itoa(c.TimeoutSeconds) +
		" concurrency=" + strconv.Itoa(c.ConcurrencyLimit) +
		" token=" + token
}
