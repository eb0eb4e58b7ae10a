// Package config defines the quizmetrics configuration and its loader.
package config

import (
	"path/filepath"
	"time"
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database holding imported exports.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address of `serve`, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DefaultLimit is the leaderboard length when none is requested.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps any requested leaderboard length on the HTTP surface.
	MaxLimit int `koanf:"max_limit"`

	// MinSamples is the attempt count a player needs to enter the speed board.
	MinSamples int `koanf:"min_samples"`

	// RecentWindow bounds the recent events of a player profile.
	RecentWindow int `koanf:"recent_window"`

	// HTTPTimeout bounds workbook downloads.
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// AnthropicModel names the model used by `analyze`.
	AnthropicModel string `koanf:"anthropic_model"`
}

// New returns a Config holding the defaults. home is the user's home
// directory; the database lives under it.
func New(home string) *Config {
	return &Config{
		DBPath:         filepath.Join(home, ".quizmetrics", "quiz.db"),
		LogLevel:       "info",
		Addr:           ":8080",
		DefaultLimit:   10,
		MaxLimit:       100,
		MinSamples:     5,
		RecentWindow:   10,
		HTTPTimeout:    30 * time.Second,
		AnthropicModel: "claude-haiku-4-5-20251001",
	}
}
