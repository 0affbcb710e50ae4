// Package config provides configuration management for the proxy gateway
// and the lookup CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingAppPassword = errors.New("server.app_password (or APP_PASSWORD) is required")
	ErrMissingPBBaseURL   = errors.New("pitchbook.base_url is required")
	ErrMissingHBaseURL    = errors.New("harmonic.base_url is required")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config is the complete proxy gateway configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	PitchBook PitchBookConfig `yaml:"pitchbook"`
	Harmonic  HarmonicConfig  `yaml:"harmonic"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains listener and caller-facing settings
type ServerConfig struct {
	Listen         string   `yaml:"listen"`
	AppPassword    string   `yaml:"app_password"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// PitchBookConfig contains the PitchBook upstream settings. API keys are
// normally supplied through the environment, not the file.
type PitchBookConfig struct {
	BaseURL       string `yaml:"base_url"`
	APIKeyLive    string `yaml:"api_key_live"`
	APIKeySandbox string `yaml:"api_key_sandbox"`
}

// HarmonicConfig contains the Harmonic upstream settings
type HarmonicConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file, applies environment overrides and
// defaults, and validates the result. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets the environment override secrets so they stay out of the
// config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("APP_PASSWORD"); v != "" {
		c.Server.AppPassword = v
	}
	if v := os.Getenv("PITCHBOOK_API_KEY_LIVE"); v != "" {
		c.PitchBook.APIKeyLive = v
	}
	if v := os.Getenv("PITCHBOOK_API_KEY_SANDBOX"); v != "" {
		c.PitchBook.APIKeySandbox = v
	}
	if v := os.Getenv("HARMONIC_API_KEY"); v != "" {
		c.Harmonic.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.PitchBook.BaseURL == "" {
		c.PitchBook.BaseURL = "https://api.pitchbook.com"
	}
	if c.Harmonic.BaseURL == "" {
		c.Harmonic.BaseURL = "https://api.harmonic.ai"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate ensures the configuration is usable
// Returns an error if validation fails
func (c *Config) Validate() error {
	if c.Server.AppPassword == "" {
		return ErrMissingAppPassword
	}
	if c.PitchBook.BaseURL == "" {
		return ErrMissingPBBaseURL
	}
	if c.Harmonic.BaseURL == "" {
		return ErrMissingHBaseURL
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}
