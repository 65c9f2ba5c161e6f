package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level  zapcore.Level
	Format string
	// Caller adds the calling file:line to every entry.
	Caller bool
}

// NewDefaultConfig returns the CLI defaults: warnings and above, console
// encoded.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  zapcore.WarnLevel,
		Format: "console",
	}
}

// FromStrings builds a config from the string settings stored in the config
// file. Empty values keep the defaults.
func FromStrings(level, format string) (*Config, error) {
	cfg := NewDefaultConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		cfg.Level = lvl
	}
	if format != "" {
		cfg.Format = strings.ToLower(format)
	}
	return cfg, cfg.Validate()
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	return nil
}
