// Package config assembles the session core's configuration from
// environment variables.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/authcore/pkg/config"
	"github.com/utafrali/authcore/pkg/database"
	"github.com/utafrali/authcore/session"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the session core.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Lockout policy
	LockThreshold int           `env:"AUTH_LOCK_THRESHOLD" envDefault:"5"`
	LockDuration  time.Duration `env:"AUTH_LOCK_DURATION" envDefault:"30m"`

	// JWT
	JWTSecret       string        `env:"AUTH_JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" envDefault:"168h"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"authcore"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"authcore_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"authcore_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.LockDuration <= 0 {
		return nil, fmt.Errorf("AUTH_LOCK_DURATION must be positive, got %s", cfg.LockDuration)
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	if cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		return nil, fmt.Errorf("AUTH_REFRESH_TOKEN_TTL (%s) must exceed AUTH_ACCESS_TOKEN_TTL (%s)",
			cfg.RefreshTokenTTL, cfg.AccessTokenTTL)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("AUTH_JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("AUTH_JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
	}

	return cfg, nil
}

// Session returns the lockout policy for the session service.
func (c *Config) Session() session.Config {
	return session.Config{
		LockThreshold: c.LockThreshold,
		LockDuration:  c.LockDuration,
	}
}

// Postgres returns the connection settings for the credential store.
func (c *Config) Postgres() database.PostgresConfig {
	cfg := database.DefaultPostgresConfig()
	cfg.Host = c.PostgresHost
	cfg.Port = c.PostgresPort
	cfg.User = c.PostgresUser
	cfg.Password = c.PostgresPass
	cfg.DBName = c.PostgresDB
	cfg.SSLMode = c.PostgresSSL
	return cfg
}

// Redis returns the connection settings for the revocation ledger.
func (c *Config) Redis() database.RedisConfig {
	cfg := database.DefaultRedisConfig()
	cfg.Host = c.RedisHost
	cfg.Port = c.RedisPort
	cfg.Password = c.RedisPass
	cfg.DB = c.RedisDB
	return cfg
}
