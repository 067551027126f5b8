// Package config loads the application configuration.
//
// Values come from process environment variables (optionally seeded from a
// `.env` file), are mapped into typed structs with koanf and validated with
// go-playground/validator so that the process fails fast on bad or missing
// configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process environment, if present,
	// before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable must carry.
//
// Keys are lowercased after the prefix is removed and "." marks nesting:
//
//	DNATEST_SERVER.PORT -> server.port -> Config.Server.Port
const EnvPrefix = "DNATEST_"

// Config is the root configuration object.
//
// Observability and App are optional; defaults are injected when they are
// missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	App           AppConfig            `koanf:"app"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// AppConfig describes the service identity reported by the index route.
type AppConfig struct {
	Name     string `koanf:"name"`
	Version  string `koanf:"version"`
	DocsPath string `koanf:"docs_path"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the sustained requests per second allowed per client IP.
	RateLimit      float64 `koanf:"rate_limit" validate:"omitempty,gt=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"omitempty,gt=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains the Redis address ("host:port").
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores the Clerk secret key.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig holds third-party integration settings.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`

	// EmailFrom is the sender identity, e.g. "DNA Testing <no-reply@example.com>".
	EmailFrom string `koanf:"email_from"`

	// NotificationEmail receives payment notifications.
	NotificationEmail string `koanf:"notification_email" validate:"omitempty,email"`
}

// Defaults applied to AppConfig when fields are not set.
const (
	DefaultAppName     = "DNA Testing Service API"
	DefaultAppVersion  = "1.0.0"
	DefaultDocsPath    = "/docs"
	DefaultEmailFrom   = "DNA Testing <onboarding@resend.dev>"
	DefaultRateLimit   = 20
	DefaultRateBurst   = 40
	defaultServiceName = "dna-testing-api"
)

// LoadConfig reads DNATEST_* environment variables, unmarshals them into
// Config, validates the result and applies defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	// Seed optional blocks with defaults so that partially configured
	// observability settings are merged over them instead of replacing them.
	mainConfig := &Config{Observability: DefaultObservabilityConfig()}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// applyDefaults fills optional blocks. Service name and environment of the
// observability block are always forced from the primary config so that
// logs and traces stay consistent.
func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = DefaultAppName
	}
	if c.App.Version == "" {
		c.App.Version = DefaultAppVersion
	}
	if c.App.DocsPath == "" {
		c.App.DocsPath = DefaultDocsPath
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = DefaultRateLimit
	}
	if c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = DefaultRateBurst
	}
	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = DefaultEmailFrom
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = defaultServiceName
	c.Observability.Environment = c.Primary.Env
}
