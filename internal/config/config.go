// Package config provides configuration loading and validation for the
// resume builder service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults for every tunable.
const (
	DefaultPort                  = 8080
	DefaultRetryAfterSeconds     = 60
	DefaultModelTimeoutSeconds   = 60
	DefaultPageLoadTimeoutSecond = 30
	DefaultMaxUploadBytes        = 10 << 20
	DefaultMetricsRetentionMins  = 24 * 60
	DefaultPruneIntervalSeconds  = 300
)

// Config is the service configuration. It can be read from a JSON file and
// overlaid with environment variables; zero values fall back to defaults.
type Config struct {
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`
	Environment string `json:"environment,omitempty"`

	// Model access
	APIKey        string `json:"api_key,omitempty"`
	PrimaryModel  string `json:"primary_model,omitempty"`
	FallbackModel string `json:"fallback_model,omitempty"`
	LiteModel     string `json:"lite_model,omitempty"`

	// Timeouts and limits
	DefaultRetryAfterSeconds int   `json:"default_retry_after_seconds,omitempty"`
	ModelTimeoutSeconds      int   `json:"model_timeout_seconds,omitempty"`
	PageLoadTimeoutSeconds   int   `json:"page_load_timeout_seconds,omitempty"`
	MaxUploadBytes           int64 `json:"max_upload_bytes,omitempty"`

	// Call metrics
	MetricsRetentionMinutes int  `json:"metrics_retention_minutes,omitempty"`
	PruneIntervalSeconds    int  `json:"prune_interval_seconds,omitempty"`
	HealthRouting           bool `json:"health_routing,omitempty"`

	ChromePath string `json:"chrome_path,omitempty"`
	Verbose    bool   `json:"verbose,omitempty"`
}

// Defaults returns a Config with every default filled in.
func Defaults() Config {
	return Config{
		Port:                     DefaultPort,
		Environment:              "development",
		DefaultRetryAfterSeconds: DefaultRetryAfterSeconds,
		ModelTimeoutSeconds:      DefaultModelTimeoutSeconds,
		PageLoadTimeoutSeconds:   DefaultPageLoadTimeoutSecond,
		MaxUploadBytes:           DefaultMaxUploadBytes,
		MetricsRetentionMinutes:  DefaultMetricsRetentionMins,
		PruneIntervalSeconds:     DefaultPruneIntervalSeconds,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

// FromEnv overlays environment variables onto c. Variables that are unset
// leave the existing value alone; malformed numbers are an error.
func (c *Config) FromEnv() error {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	setInt := func(dst *int, key string) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", key, err)
		}
		*dst = n
		return nil
	}

	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Environment, "APP_ENV")
	setString(&c.APIKey, "GOOGLE_GENERATIVE_AI_API_KEY", "GEMINI_API_KEY")
	setString(&c.PrimaryModel, "PRIMARY_MODEL")
	setString(&c.FallbackModel, "FALLBACK_MODEL")
	setString(&c.LiteModel, "LITE_MODEL")
	setString(&c.ChromePath, "CHROME_PATH")

	for key, dst := range map[string]*int{
		"PORT":                      &c.Port,
		"DEFAULT_RETRY_AFTER":       &c.DefaultRetryAfterSeconds,
		"MODEL_TIMEOUT_SECONDS":     &c.ModelTimeoutSeconds,
		"PAGE_LOAD_TIMEOUT_SECONDS": &c.PageLoadTimeoutSeconds,
		"METRICS_RETENTION_MINUTES": &c.MetricsRetentionMinutes,
		"METRICS_PRUNE_SECONDS":     &c.PruneIntervalSeconds,
	} {
		if err := setInt(dst, key); err != nil {
			return err
		}
	}

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES: %v", err)
		}
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("HEALTH_ROUTING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HEALTH_ROUTING: %v", err)
		}
		c.HealthRouting = b
	}
	return nil
}

// Validate checks that the configuration has valid values. A missing API key
// is allowed: model-backed endpoints then report that they are unavailable.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	for name, v := range map[string]int{
		"default_retry_after_seconds": c.DefaultRetryAfterSeconds,
		"model_timeout_seconds":       c.ModelTimeoutSeconds,
		"page_load_timeout_seconds":   c.PageLoadTimeoutSeconds,
		"metrics_retention_minutes":   c.MetricsRetentionMinutes,
		"prune_interval_seconds":      c.PruneIntervalSeconds,
	} {
		if v < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", name)
		}
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.DatabaseURL != "" && !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("config error: 'database_url' must be a postgres:// URL")
	}
	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// Bools are never merged since unset and false look the same.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	mergeInt := func(dst *int, def int) {
		if *dst == 0 {
			*dst = def
		}
	}

	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.Environment, defaults.Environment)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.PrimaryModel, defaults.PrimaryModel)
	mergeString(&result.FallbackModel, defaults.FallbackModel)
	mergeString(&result.LiteModel, defaults.LiteModel)
	mergeString(&result.ChromePath, defaults.ChromePath)

	mergeInt(&result.Port, defaults.Port)
	mergeInt(&result.DefaultRetryAfterSeconds, defaults.DefaultRetryAfterSeconds)
	mergeInt(&result.ModelTimeoutSeconds, defaults.ModelTimeoutSeconds)
	mergeInt(&result.PageLoadTimeoutSeconds, defaults.PageLoadTimeoutSeconds)
	mergeInt(&result.MetricsRetentionMinutes, defaults.MetricsRetentionMinutes)
	mergeInt(&result.PruneIntervalSeconds, defaults.PruneIntervalSeconds)

	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	return result
}

// Load reads the optional JSON file at path, overlays the environment and
// fills remaining gaps from Defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.FromEnv(); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// HasAPIKey reports whether model credentials are configured.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// DefaultRetryAfter is the quota wait used when the provider gives none.
func (c *Config) DefaultRetryAfter() time.Duration {
	return time.Duration(c.DefaultRetryAfterSeconds) * time.Second
}

// ModelTimeout bounds a single model call.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.ModelTimeoutSeconds) * time.Second
}

// PageLoadTimeout bounds a single browser page load.
func (c *Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.PageLoadTimeoutSeconds) * time.Second
}

// MetricsRetention is how long call metrics are kept.
func (c *Config) MetricsRetention() time.Duration {
	return time.Duration(c.MetricsRetentionMinutes) * time.Minute
}

// PruneInterval is how often old call metrics are dropped.
func (c *Config) PruneInterval() time.Duration {
	return time.Duration(c.PruneIntervalSeconds) * time.Second
}
