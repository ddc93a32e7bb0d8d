// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Rendering engines
const (
	EngineChromium = "chromium"
	EngineRod      = "rod"
)

// Defaults applied by MergeWithDefaults
const (
	DefaultPort                 = 8080
	DefaultEngine               = EngineChromium
	DefaultRenderTimeoutSeconds = 60
	DefaultSettleTimeoutSeconds = 10
	DefaultDeviceScale          = 2.0
	DefaultQuality              = 0.95
	DefaultFormat               = "a4"
	DefaultLogLevel             = "info"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from CLI flags
// and environment variables.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty" validate:"gte=0,lte=65535"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for stored exports

	// Templates
	TemplatesDir string `json:"templates_dir,omitempty"` // Directory of template manifests loaded at startup
	SealRegistry bool   `json:"seal_registry,omitempty"` // Reject registrations after bootstrap

	// Rendering
	Engine               string  `json:"engine,omitempty" validate:"omitempty,oneof=chromium rod"`
	ChromePath           string  `json:"chrome_path,omitempty"`
	RenderTimeoutSeconds int     `json:"render_timeout_seconds,omitempty" validate:"gte=0"`
	SettleTimeoutSeconds int     `json:"settle_timeout_seconds,omitempty" validate:"gte=0"`
	DeviceScale          float64 `json:"device_scale,omitempty" validate:"gte=0,lte=4"`
	Quality              float64 `json:"quality,omitempty" validate:"gte=0,lte=1"`
	Format               string  `json:"format,omitempty" validate:"omitempty,oneof=a4 letter"`

	// Print fallback
	HostDocumentURL string `json:"host_document_url,omitempty" validate:"omitempty,url"` // Page whose stylesheets are inlined into print documents

	// Behavior
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Verbose  bool   `json:"verbose,omitempty"`
}

var validate = validator.New()

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

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' validation (value %v)", jsonName(fe.Field()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.TemplatesDir != "" {
		info, err := os.Stat(c.TemplatesDir)
		if os.IsNotExist(err) {
			return fmt.Errorf("config error: templates directory not found: %s", c.TemplatesDir)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("config error: templates_dir is not a directory: %s", c.TemplatesDir)
		}
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}

	return nil
}

// jsonName maps a struct field to its JSON key for error messages.
func jsonName(field string) string {
	if f, ok := configFields[field]; ok {
		return f
	}
	return field
}

var configFields = map[string]string{
	"Port":                 "port",
	"Engine":               "engine",
	"RenderTimeoutSeconds": "render_timeout_seconds",
	"SettleTimeoutSeconds": "settle_timeout_seconds",
	"DeviceScale":          "device_scale",
	"Quality":              "quality",
	"Format":               "format",
	"HostDocumentURL":      "host_document_url",
	"LogLevel":             "log_level",
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.TemplatesDir == "" {
		result.TemplatesDir = defaults.TemplatesDir
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.HostDocumentURL == "" {
		result.HostDocumentURL = defaults.HostDocumentURL
	}
	if result.Engine == "" {
		result.Engine = firstNonEmpty(defaults.Engine, DefaultEngine)
	}
	if result.Format == "" {
		result.Format = firstNonEmpty(defaults.Format, DefaultFormat)
	}
	if result.LogLevel == "" {
		result.LogLevel = firstNonEmpty(defaults.LogLevel, DefaultLogLevel)
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = firstPositive(defaults.Port, DefaultPort)
	}
	if result.RenderTimeoutSeconds == 0 {
		result.RenderTimeoutSeconds = firstPositive(defaults.RenderTimeoutSeconds, DefaultRenderTimeoutSeconds)
	}
	if result.SettleTimeoutSeconds == 0 {
		result.SettleTimeoutSeconds = firstPositive(defaults.SettleTimeoutSeconds, DefaultSettleTimeoutSeconds)
	}
	if result.DeviceScale == 0 {
		result.DeviceScale = firstPositive(defaults.DeviceScale, DefaultDeviceScale)
	}
	if result.Quality == 0 {
		result.Quality = firstPositive(defaults.Quality, DefaultQuality)
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overrides fields from environment variables. getenv is usually
// os.Getenv. Malformed numeric values are reported and leave the field as is.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setString("DATABASE_URL", &c.DatabaseURL)
	setString("TEMPLATES_DIR", &c.TemplatesDir)
	setString("CHROME_PATH", &c.ChromePath)
	setString("RESUME_STUDIO_ENGINE", &c.Engine)
	setString("HOST_DOCUMENT_URL", &c.HostDocumentURL)
	setString("LOG_LEVEL", &c.LogLevel)

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	return nil
}

// RenderTimeout is RenderTimeoutSeconds as a duration.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.RenderTimeoutSeconds) * time.Second
}

// SettleTimeout is SettleTimeoutSeconds as a duration.
func (c *Config) SettleTimeout() time.Duration {
	return time.Duration(c.SettleTimeoutSeconds) * time.Second
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive[T int | float64](values ...T) T {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
