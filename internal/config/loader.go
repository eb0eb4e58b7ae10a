package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix = "QUIZMETRICS_"
	EnvFile   = "QUIZMETRICS_CONFIG"
)

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. the YAML file named by QUIZMETRICS_CONFIG, if set
//  3. env vars with the QUIZMETRICS_ prefix (QUIZMETRICS_MIN_SAMPLES -> min_samples)
func Load(_ context.Context) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := New(home)

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DefaultLimit <= 0:
		return fmt.Errorf("%w: default_limit must be positive", ErrInvalidConfig)
	case c.MaxLimit < c.DefaultLimit:
		return fmt.Errorf("%w: max_limit must be at least default_limit", ErrInvalidConfig)
	case c.MinSamples <= 0:
		return fmt.Errorf("%w: min_samples must be positive", ErrInvalidConfig)
	case c.RecentWindow <= 0:
		return fmt.Errorf("%w: recent_window must be positive", ErrInvalidConfig)
	case c.HTTPTimeout <= 0:
		return fmt.Errorf("%w: http_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
