// Package config handles sharpen configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/instruction"
	"github.com/HartBrook/sharpen/internal/template"
	"gopkg.in/yaml.v3"
)

// GeminiConfig contains managed-call settings.
type GeminiConfig struct {
	Model   string `yaml:"model,omitempty"`    // Model used for the optimization call
	BaseURL string `yaml:"base_url,omitempty"` // Override for the Gemini API endpoint
}

// StorageConfig selects where history and settings are kept.
type StorageConfig struct {
	Driver string `yaml:"driver,omitempty"` // "file" or "sqlite"
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	Timeout string `yaml:"timeout,omitempty"` // e.g., "120s"
}

// Config represents the sharpen configuration file.
type Config struct {
	Version int `yaml:"version"`

	// DefaultTarget is the model family used when --target is not given.
	DefaultTarget string `yaml:"default_target,omitempty"`

	Gemini  GeminiConfig  `yaml:"gemini,omitempty"`
	Storage StorageConfig `yaml:"storage,omitempty"`
	HTTP    HTTPConfig    `yaml:"http,omitempty"`

	// Templates are user templates added to the built-in library.
	Templates []template.Template `yaml:"templates,omitempty"`
}

// Default values.
const (
	DefaultVersion     = 1
	DefaultTarget      = string(instruction.Gemini)
	DefaultGeminiModel = "gemini-2.5-pro"
	DefaultTimeout     = "120s"

	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads config from the default location.
// A missing file yields the defaults.
func Load() (*Config, error) {
	paths := NewPaths()
	return LoadFrom(paths.ConfigFile)
}

// LoadFrom reads and validates config from a specific path.
// A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to read config", "", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to parse config YAML", "Check config syntax", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveTo writes config to a specific path.
func SaveTo(cfg *Config, path string) error {
	cfg.applyDefaults()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to marshal config", "", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to create config directory", "", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks config for valid values.
func (c *Config) Validate() error {
	if _, err := instruction.ParseTarget(c.DefaultTarget); err != nil {
		return errors.ConfigInvalid("default_target must be one of gemini, anthropic, chatgpt, llama")
	}

	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
	default:
		return errors.ConfigInvalid("storage.driver must be \"file\" or \"sqlite\"")
	}

	if _, err := time.ParseDuration(c.HTTP.Timeout); err != nil {
		return errors.ConfigInvalid("invalid http.timeout format, use Go duration format (e.g., 120s)")
	}

	return nil
}

// applyDefaults sets default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.DefaultTarget == "" {
		c.DefaultTarget = DefaultTarget
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.HTTP.Timeout == "" {
		c.HTTP.Timeout = DefaultTimeout
	}
}

// Target returns the default target as a typed value.
func (c *Config) Target() instruction.Target {
	t, err := instruction.ParseTarget(c.DefaultTarget)
	if err != nil {
		return instruction.Gemini
	}
	return t
}

// TimeoutDuration returns the HTTP timeout as a time.Duration.
func (c *HTTPConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}
