package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"lms_url": "https://aula.example.edu",
		"token": "abc123",
		"taxonomy": "taxonomy.json",
		"timeout_seconds": 20,
		"concurrency": 8,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://aula.example.edu", cfg.BaseURL)
	assert.Equal(t, "abc123", cfg.Token)
	assert.Equal(t, "taxonomy.json", cfg.TaxonomyPath)
	assert.Equal(t, 20, cfg.TimeoutSeconds)
	assert.Equal(t, 8, cfg.ConcurrencyLimit)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
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

func TestValidate_RejectsMalformedURL(t *testing.T) {
	cfg := &Config{BaseURL: "not a url"}

	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidate_MissingTaxonomyFile(t *testing.T) {
	cfg := &Config{TaxonomyPath: "/nonexistent/taxonomy.json"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "taxonomy file not found")
}

func TestValidate_EmptyConfigIsValid(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		BaseURL: "https://aula.example.edu",
	}
	defaults := Config{
		BaseURL:          "https://default.example.edu",
		Token:            "envtoken",
		TaxonomyPath:     "default-taxonomy.json",
		TimeoutSeconds:   30,
		ConcurrencyLimit: 4,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "https://aula.example.edu", merged.BaseURL)
	assert.Equal(t, "envtoken", merged.Token)
	assert.Equal(t, "default-taxonomy.json", merged.TaxonomyPath)
	assert.Equal(t, 30, merged.TimeoutSeconds)
	assert.Equal(t, 4, merged.ConcurrencyLimit)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "https://env.example.edu")
	t.Setenv(EnvToken, "envtok")
	t.Setenv(EnvTaxonomyPath, "env-taxonomy.json")

	cfg := FromEnv()
	assert.Equal(t, "https://env.example.edu", cfg.BaseURL)
	assert.Equal(t, "envtok", cfg.Token)
	assert.Equal(t, "env-taxonomy.json", cfg.TaxonomyPath)
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), (&Config{}).Timeout())
	assert.Equal(t, 20*time.Second, (&Config{TimeoutSeconds: 20}).Timeout())
}

func TestString_RedactsToken(t *testing.T) {
	cfg := &Config{BaseURL: "https://aula.example.edu", Token: "secret"}
	s := cfg.String()
	assert.NotContains(t, s, "secret")
	assert.Contains(t, s, "(set)")
}
