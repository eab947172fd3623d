// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

// Defaults for values that have one.
const (
	DefaultPort           = 8080
	DefaultMeasureTimeout = 30 * time.Second
	DefaultExportTimeout  = 60 * time.Second
)

// Config represents configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment or CLI flags.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Rendering
	ChromePath    string `json:"chrome_path,omitempty"`    // Chrome binary for measurement and local rasterization
	RasterizerURL string `json:"rasterizer_url,omitempty"` // Remote conversion endpoint; local Chrome when empty
	ConstantsPath string `json:"constants_path,omitempty"` // Estimator constants JSON

	// Layout defaults applied when a request or input omits them
	PageSize string `json:"page_size,omitempty"`
	Template string `json:"template,omitempty"`
	Preset   string `json:"preset,omitempty"`

	// Timeouts in seconds
	MeasureTimeoutSeconds int `json:"measure_timeout_seconds,omitempty"`
	ExportTimeoutSeconds  int `json:"export_timeout_seconds,omitempty"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the environment-backed settings. Call godotenv.Load first to pick up a .env file.
func FromEnv() Config {
	return Config{
		Port:                  getEnvInt("PORT", 0),
		DatabaseURL:           getEnvString("DATABASE_URL", ""),
		ChromePath:            getEnvString("CHROME_PATH", ""),
		RasterizerURL:         getEnvString("RASTERIZER_URL", ""),
		ConstantsPath:         getEnvString("ESTIMATOR_CONSTANTS", ""),
		MeasureTimeoutSeconds: int(getEnvDuration("MEASURE_TIMEOUT", 0).Seconds()),
		ExportTimeoutSeconds:  int(getEnvDuration("EXPORT_TIMEOUT", 0).Seconds()),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MeasureTimeoutSeconds < 0 || c.ExportTimeoutSeconds < 0 {
		return fmt.Errorf("config error: timeouts must be non-negative")
	}
	if c.PageSize != "" && !geometry.Supported(c.PageSize) {
		return fmt.Errorf("config error: unsupported page size %q", c.PageSize)
	}
	if c.Template != "" && !knownTemplate(c.Template) {
		return fmt.Errorf("config error: unknown template %q", c.Template)
	}
	if c.Preset != "" {
		if _, err := style.ApplyPreset(types.StyleConfig{}, c.Preset); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.ConstantsPath != "" {
		if _, err := os.Stat(c.ConstantsPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: estimator constants file not found: %s", c.ConstantsPath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer config file values over environment values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.RasterizerURL == "" {
		result.RasterizerURL = defaults.RasterizerURL
	}
	if result.ConstantsPath == "" {
		result.ConstantsPath = defaults.ConstantsPath
	}
	if result.PageSize == "" {
		result.PageSize = defaults.PageSize
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Preset == "" {
		result.Preset = defaults.Preset
	}
	if result.MeasureTimeoutSeconds == 0 {
		result.MeasureTimeoutSeconds = defaults.MeasureTimeoutSeconds
	}
	if result.ExportTimeoutSeconds == 0 {
		result.ExportTimeoutSeconds = defaults.ExportTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ListenPort is Port or DefaultPort.
func (c *Config) ListenPort() int {
	if c.Port > 0 {
		return c.Port
	}
	return DefaultPort
}

// MeasureTimeout is the per-pass measurement timeout.
func (c *Config) MeasureTimeout() time.Duration {
	if c.MeasureTimeoutSeconds > 0 {
		return time.Duration(c.MeasureTimeoutSeconds) * time.Second
	}
	return DefaultMeasureTimeout
}

// ExportTimeout is the per-export rasterization timeout.
func (c *Config) ExportTimeout() time.Duration {
	if c.ExportTimeoutSeconds > 0 {
		return time.Duration(c.ExportTimeoutSeconds) * time.Second
	}
	return DefaultExportTimeout
}

func knownTemplate(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case style.TemplateClassic, style.TemplateModern:
		return true
	}
	return false
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
