package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the console gateway
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	Metrics MetricsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// BackendConfig holds the connection settings for the document backend.
// Every outbound call the gateway makes goes to BaseURL.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Validate checks that the backend configuration is usable in the given environment.
// In production/staging the base URL must be explicitly configured and well-formed.
func (c *BackendConfig) Validate(environment string) error {
	if c.BaseURL == "" {
		return errors.New("CONSOLE_BACKEND_BASE_URL is required")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid backend base URL: %q", c.BaseURL)
	}
	if environment == EnvProduction || environment == EnvStaging {
		if strings.Contains(parsed.Host, "localhost") || strings.Contains(parsed.Host, "127.0.0.1") {
			return errors.New("localhost backend not allowed in " + environment + " - set CONSOLE_BACKEND_BASE_URL")
		}
	}
	return nil
}

// SessionConfig holds the credential cookie settings.
// The cookie name mirrors the browser local-storage key the SPA used.
type SessionConfig struct {
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	CookieMaxAge time.Duration `mapstructure:"cookie_max_age"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from environment and config files.
// This function applies development defaults and is suitable for local development.
// For production use, prefer LoadWithValidation which enforces required configuration.
func Load() (*Config, error) {
	return loadConfig(true)
}

// LoadWithValidation loads configuration and validates it for the current environment.
// In production/staging environments, this will fail if required configuration is missing.
// Use this function in main() for fail-fast behavior.
func LoadWithValidation() (*Config, error) {
	cfg, err := loadConfig(true)
	if err != nil {
		return nil, err
	}

	if err := cfg.Backend.Validate(cfg.Server.Environment); err != nil {
		return nil, fmt.Errorf("backend configuration error: %w", err)
	}

	if cfg.Server.Environment == EnvProduction || cfg.Server.Environment == EnvStaging {
		if !cfg.Session.CookieSecure {
			return nil, errors.New("CONSOLE_SESSION_COOKIE_SECURE must be true in " + cfg.Server.Environment)
		}
	}

	return cfg, nil
}

// loadConfig is the internal configuration loader
func loadConfig(applyDefaults bool) (*Config, error) {
	v := viper.New()

	if applyDefaults {
		setDefaults(v)
	}

	// Read from environment variables
	v.SetEnvPrefix("CONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName("console-gateway")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/intellidoc")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.environment", "development")

	// Backend defaults
	v.SetDefault("backend.base_url", "http://localhost:5000")
	v.SetDefault("backend.timeout", 30*time.Second)

	// Session defaults
	v.SetDefault("session.cookie_name", "token")
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("session.cookie_max_age", 12*time.Hour)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}
