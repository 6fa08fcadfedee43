// Package config loads scope settings: built-in defaults, then an optional
// YAML file, then SCOPE_* environment overrides, then validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config represents the complete configuration for the scope.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Engine  EngineConfig  `yaml:"engine"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

// SerialConfig holds transport settings.
type SerialConfig struct {
	Device    string `yaml:"device"`
	Baud      int    `yaml:"baud"`
	Delimiter string `yaml:"delimiter"` // single byte; escapes such as "\n" are accepted
}

// EngineConfig holds ingestion engine settings.
type EngineConfig struct {
	Capacity      int     `yaml:"capacity"`
	InitialRateHz float64 `yaml:"initialRateHz"`
}

// DisplayConfig holds renderer settings.
type DisplayConfig struct {
	DurationSec float64       `yaml:"durationSec"`
	Refresh     time.Duration `yaml:"refresh"`
}

// LogConfig holds log file settings. An empty File logs to scope.log in the
// OS temp directory.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Baud:      9600,
			Delimiter: `\n`,
		},
		Engine: EngineConfig{
			Capacity:      10000,
			InitialRateHz: 10,
		},
		Display: DisplayConfig{
			DurationSec: 10,
			Refresh:     100 * time.Millisecond,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load returns the defaults overlaid with path (if non-empty) and the
// environment, validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// applyEnvOverrides applies SCOPE_* environment variables.
func applyEnvOverrides(cfg *Config) error {
	if dev := os.Getenv("SCOPE_DEVICE"); dev != "" {
		cfg.Serial.Device = dev
	}
	if s := os.Getenv("SCOPE_BAUD"); s != "" {
		baud, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid SCOPE_BAUD %q: %w", s, err)
		}
		cfg.Serial.Baud = baud
	}
	if s := os.Getenv("SCOPE_CAPACITY"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid SCOPE_CAPACITY %q: %w", s, err)
		}
		cfg.Engine.Capacity = n
	}
	if s := os.Getenv("SCOPE_LOG_FILE"); s != "" {
		cfg.Log.File = s
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Serial.Baud)
	}
	if _, err := ParseDelimiter(c.Serial.Delimiter); err != nil {
		return err
	}
	if c.Engine.Capacity < 2 {
		return fmt.Errorf("capacity must be at least 2, got %d", c.Engine.Capacity)
	}
	if !(c.Engine.InitialRateHz > 0) {
		return fmt.Errorf("initial rate must be positive, got %v", c.Engine.InitialRateHz)
	}
	if c.Display.DurationSec < 0 {
		return fmt.Errorf("display duration must not be negative, got %v", c.Display.DurationSec)
	}
	if c.Display.Refresh < 10*time.Millisecond {
		return fmt.Errorf("refresh interval %v is below 10ms", c.Display.Refresh)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	return nil
}

// ParseDelimiter turns a configured delimiter into a single byte. It accepts
// a literal byte or one of the escapes \n, \r, \t and \0.
func ParseDelimiter(s string) (byte, error) {
	switch s {
	case `\n`, "\n":
		return '\n', nil
	case `\r`, "\r":
		return '\r', nil
	case `\t`, "\t":
		return '\t', nil
	case `\0`:
		return 0, nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single byte, got %q", s)
	}
	return s[0], nil
}
