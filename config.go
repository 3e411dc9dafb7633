package logfx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap/zapcore"
)

// Supported encodings for Config.Encoding.
const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// DefaultLevel is the logging level used when none is configured.
const DefaultLevel = "info"

// envPrefix is the prefix for environment-based configuration.
const envPrefix = "LOGFX_"

// ErrEmptyData is returned when the configuration input is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathIsDirectory is returned when a config path points to a directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// ErrInvalidLevel is returned when the configured level is not a zap level.
var ErrInvalidLevel = errors.New("invalid level")

// ErrInvalidEncoding is returned when the configured encoding is unknown.
var ErrInvalidEncoding = errors.New("invalid encoding")

// Config holds declarative settings for the built logger. It is meant to be
// loaded by the composition root (from YAML or the environment) and handed to
// Builder.Apply.
type Config struct {
	Level            string            `env:"LEVEL"              yaml:"level"`
	Encoding         string            `env:"ENCODING"           yaml:"encoding"`
	OutputPaths      []string          `env:"OUTPUT_PATHS"       yaml:"outputPaths"`
	ErrorOutputPaths []string          `env:"ERROR_OUTPUT_PATHS" yaml:"errorOutputPaths"`
	Fields           map[string]string `env:"FIELDS"             yaml:"fields"`
}

// SetDefaults sets default values for the Config.
func (c *Config) SetDefaults() (changed bool) {
	if c.Level == "" {
		c.Level = DefaultLevel
		changed = true
	}

	if c.Encoding == "" {
		c.Encoding = EncodingJSON
		changed = true
	}

	return changed
}

// Validate validates the Config.
func (c *Config) Validate() error {
	_, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Level)
	}

	if c.Encoding != EncodingJSON && c.Encoding != EncodingConsole {
		return fmt.Errorf("%w: %q", ErrInvalidEncoding, c.Encoding)
	}

	return nil
}

// ParseConfig parses YAML configuration data.
func ParseConfig(data []byte) (Config, error) {
	if len(data) == 0 {
		return Config{}, ErrEmptyData
	}

	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return config, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	cleanPath := filepath.Clean(path)

	stat, err := os.Stat(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("stat file %q: %w", cleanPath, err)
	}

	if stat.IsDir() {
		return Config{}, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
	if err != nil {
		return Config{}, fmt.Errorf("reading file %q: %w", cleanPath, err)
	}

	return ParseConfig(data)
}

// ConfigFromEnv reads configuration from LOGFX_-prefixed environment
// variables (LOGFX_LEVEL, LOGFX_ENCODING, LOGFX_OUTPUT_PATHS, ...).
func ConfigFromEnv() (Config, error) {
	config, err := env.ParseAsWithOptions[Config](env.Options{Prefix: envPrefix})
	if err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	return config, nil
}
