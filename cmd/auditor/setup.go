package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonkmatsumo/classroom-auditor/internal/config"
	"github.com/jonkmatsumo/classroom-auditor/internal/lms"
	"github.com/jonkmatsumo/classroom-auditor/internal/report"
	"github.com/jonkmatsumo/classroom-auditor/internal/rules"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// resolveConfig layers CLI flags over the config file over the environment
// and validates the result.
func resolveConfig(cmd *cobra.Command, configPath, baseURL, token string, verbose bool) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	cfg = cfg.MergeWithDefaults(config.FromEnv())

	if cmd.Flags().Changed("lms-url") {
		cfg.BaseURL = baseURL
	}
	if cmd.Flags().Changed("token") {
		cfg.Token = token
	}
	if verbose {
		cfg.Verbose = true
	}

	if cfg.BaseURL == "" {
		return cfg, fmt.Errorf("no LMS base URL: set --lms-url, the config file, or %s", config.EnvBaseURL)
	}
	if cfg.Token == "" {
		return cfg, fmt.Errorf("no web-service token: set --token, the config file, or %s", config.EnvToken)
	}
	if cfg.TaxonomyPath == "" {
		return cfg, fmt.Errorf("no taxonomy path: set the config file or %s", config.EnvTaxonomyPath)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// buildAssembler wires client, taxonomy and dispatcher from the effective
// configuration.
func buildAssembler(cfg config.Config, logger zerolog.Logger) (*report.Assembler, error) {
	tax, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	client := lms.NewClient(cfg.BaseURL, &lms.Options{
		Timeout: cfg.Timeout(),
		Logger:  logger,
	})
	return report.NewAssembler(client, tax, rules.NewDispatcher(), &report.Options{
		Logger:           logger,
		ConcurrencyLimit: cfg.ConcurrencyLimit,
	}), nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
