package docxtiptap

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultNestedTablePlaceholder is the text that stands in for a table nested
// inside a table cell.
const DefaultNestedTablePlaceholder = "[Nested table content]"

// Config contains all configuration options for the conversion engine
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// OutlineSections groups body content under its headings as nested sections
	OutlineSections bool `yaml:"outline_sections"`
	// NestedTablePlaceholder is the paragraph text emitted for nested tables
	NestedTablePlaceholder string `yaml:"nested_table_placeholder"`
	// MaxContainerBytes rejects larger uploads before unzipping. 0 disables the check.
	MaxContainerBytes int64 `yaml:"max_container_bytes"`
	// Workers bounds parallel conversions in batch mode
	Workers int `yaml:"workers"`
	// DefaultTableStyle is the style id given to tables that carry no raw properties
	DefaultTableStyle string `yaml:"default_table_style"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:               "info",
		OutlineSections:        false,
		NestedTablePlaceholder: DefaultNestedTablePlaceholder,
		MaxContainerBytes:      50 << 20,
		Workers:                runtime.GOMAXPROCS(0),
		DefaultTableStyle:      "TableGrid",
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()
	applyEnvironment(config)
	return config
}

func applyEnvironment(config *Config) {
	// DOCXTIPTAP_LOG_LEVEL
	if val := os.Getenv("DOCXTIPTAP_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// DOCXTIPTAP_OUTLINE_SECTIONS
	if val := os.Getenv("DOCXTIPTAP_OUTLINE_SECTIONS"); val != "" {
		config.OutlineSections = parseBool(val)
	}

	// DOCXTIPTAP_NESTED_TABLE_PLACEHOLDER
	if val := os.Getenv("DOCXTIPTAP_NESTED_TABLE_PLACEHOLDER"); val != "" {
		config.NestedTablePlaceholder = val
	}

	// DOCXTIPTAP_MAX_CONTAINER_BYTES
	if val := os.Getenv("DOCXTIPTAP_MAX_CONTAINER_BYTES"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.MaxContainerBytes = n
		}
	}

	// DOCXTIPTAP_WORKERS
	if val := os.Getenv("DOCXTIPTAP_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.Workers = n
		}
	}

	// DOCXTIPTAP_DEFAULT_TABLE_STYLE
	if val := os.Getenv("DOCXTIPTAP_DEFAULT_TABLE_STYLE"); val != "" {
		config.DefaultTableStyle = val
	}
}

// LoadConfigFile reads a YAML config file over the defaults and then applies
// environment overrides, so the environment always wins.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	applyEnvironment(config)

	if err := config.Validate(); err != nil {
		return nil, err
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

	if c.MaxContainerBytes < 0 {
		return errors.New("max container bytes cannot be negative")
	}

	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}

	if strings.TrimSpace(c.NestedTablePlaceholder) == "" {
		return errors.New("nested table placeholder cannot be empty")
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// outside the lock: the logger reads the config back
	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
