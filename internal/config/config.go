// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.notestream/config.yaml)
//  3. Default values
//
// Security: the LLM API key is request-scoped. It may be supplied via
// NOTESTREAM_API_KEY for CLI use but is never written to the config
// file, never cached, and masked in MarshalJSON.
//
// Error handling uses sentinel errors for errors.Is() checks; wrap
// with context using fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/notestream/notestream/internal/llm"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidBaseURL indicates the LLM endpoint URL is invalid.
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrInvalidDBPath indicates the cache database path is invalid.
	ErrInvalidDBPath = errors.New("invalid database path")

	// ErrInvalidListenAddr indicates the serve address is invalid.
	ErrInvalidListenAddr = errors.New("invalid listen address")

	// ErrInvalidRateLimit indicates the per-client rate limit is out of range.
	ErrInvalidRateLimit = errors.New("invalid rate limit")
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
type Config struct {
	// LLM endpoint and model
	ModelName string `mapstructure:"model_name" json:"model_name"`
	BaseURL   string `mapstructure:"base_url" json:"base_url"`
	APIKey    string `mapstructure:"api_key" json:"api_key"` // SENSITIVE: env-only, masked in MarshalJSON

	// Cache storage
	DBPath string `mapstructure:"db_path" json:"db_path"`

	// Serve mode
	ListenAddr     string   `mapstructure:"listen_addr" json:"listen_addr"`
	CORSOrigins    []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy     bool     `mapstructure:"trust_proxy" json:"trust_proxy"` // trust X-Real-IP/X-Forwarded-For (set true behind reverse proxy)
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst" json:"rate_limit_burst"`

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".notestream")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v, configDir)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults apply.
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("model_name", llm.DefaultModel)
	v.SetDefault("base_url", llm.DefaultBaseURL)

	v.SetDefault("db_path", filepath.Join(configDir, "notestream.db"))

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("trust_proxy", false)
	v.SetDefault("rate_limit_rps", 5.0)
	v.SetDefault("rate_limit_burst", 10)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// bindEnvVariables binds environment overrides explicitly. The API key
// is env-only so it never round-trips through the config file.
func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a panic here is a bug.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("api_key", "NOTESTREAM_API_KEY")
	mustBind("model_name", "NOTESTREAM_MODEL")
	mustBind("base_url", "NOTESTREAM_BASE_URL")
	mustBind("db_path", "NOTESTREAM_DB_PATH")
	mustBind("listen_addr", "NOTESTREAM_LISTEN_ADDR")
	mustBind("cors_origins", "NOTESTREAM_CORS_ORIGINS")
	mustBind("trust_proxy", "NOTESTREAM_TRUST_PROXY")
	mustBind("log_level", "NOTESTREAM_LOG_LEVEL")
	mustBind("log_json", "NOTESTREAM_LOG_JSON")
}

// Validate performs fail-fast checks on the loaded configuration.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, u.Scheme)
	}

	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: path must not be empty", ErrInvalidDBPath)
	}

	if strings.TrimSpace(c.ListenAddr) == "" || !strings.Contains(c.ListenAddr, ":") {
		return fmt.Errorf("%w: %q", ErrInvalidListenAddr, c.ListenAddr)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitRPS > 1000 {
		return fmt.Errorf("%w: rps must be in (0, 1000], got %v", ErrInvalidRateLimit, c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 || c.RateLimitBurst > 10000 {
		return fmt.Errorf("%w: burst must be in [1, 10000], got %d", ErrInvalidRateLimit, c.RateLimitBurst)
	}

	return nil
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging. Short secrets are
// fully masked; longer ones keep the first and last two characters for
// debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit masking of the
// API key so a dumped config never leaks the credential.
func (c *Config) MarshalJSON() ([]byte, error) {
	type alias Config
	masked := alias(*c)
	masked.APIKey = maskSecret(c.APIKey)
	return json.Marshal(masked)
}
