package docx

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	CompressionDeflate = "deflate"
	CompressionStore   = "store"
)

// Config contains the options used when documents are packaged.
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// Compression selects the archive method for every part (deflate or store)
	Compression string `yaml:"compression"`
	// Tracing records an OpenTelemetry span per package write
	Tracing bool `yaml:"tracing"`
	// Metrics records OpenTelemetry package metrics
	Metrics bool `yaml:"metrics"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		Compression: CompressionDeflate,
		Tracing:     false,
		Metrics:     false,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// DOCX_LOG_LEVEL
	if val := os.Getenv("DOCX_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// DOCX_COMPRESSION
	if val := os.Getenv("DOCX_COMPRESSION"); val != "" {
		config.Compression = strings.ToLower(strings.TrimSpace(val))
	}

	// DOCX_TRACING
	if val := os.Getenv("DOCX_TRACING"); val != "" {
		config.Tracing = parseBool(val)
	}

	// DOCX_METRICS
	if val := os.Getenv("DOCX_METRICS"); val != "" {
		config.Metrics = parseBool(val)
	}

	return config
}

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their environment or default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	config := ConfigFromEnvironment()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	switch c.Compression {
	case CompressionDeflate, CompressionStore:
	default:
		return errors.New("invalid compression: " + c.Compression)
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	configOnce.Do(func() {
		globalConfigMutex.Lock()
		if globalConfig == nil {
			globalConfig = ConfigFromEnvironment()
		}
		globalConfigMutex.Unlock()
	})

	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	configOnce.Do(func() {})
	globalConfigMutex.Lock()
	if config == nil {
		config = DefaultConfig()
	}
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
