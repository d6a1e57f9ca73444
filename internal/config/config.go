package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Seed         SeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"teacher-store"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"8080"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// PostgresConfig holds DB connection values. An empty DSN selects the in-memory store.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values. An empty Addr selects the in-memory session store.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
	AccessTokenTTLMinutes int    `env:"AUTH_ACCESS_TOKEN_TTL_MINUTES" envDefault:"720"`
	BcryptCost            int    `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	CookieName            string `env:"AUTH_COOKIE_NAME" envDefault:"session_token"`
	CookieSecure          bool   `env:"AUTH_COOKIE_SECURE" envDefault:"false"`
}

// NotificationConfig holds outbound email settings.
type NotificationConfig struct {
	EmailFrom      string `env:"NOTIFY_EMAIL_FROM" envDefault:"noreply@eduplatform.ma"`
	EmailFromName  string `env:"NOTIFY_EMAIL_FROM_NAME" envDefault:"EDU Platform"`
	SendgridAPIKey string `env:"SENDGRID_API_KEY"`
}

// SeedConfig is the administrator provisioned by the admin CLI seed command.
type SeedConfig struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@eduplatform.ma"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
	AdminName     string `env:"SEED_ADMIN_NAME" envDefault:"Platform Admin"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if c.IsProduction() && c.Auth.JWTSecret == "dev-secret" {
		return fmt.Errorf("AUTH_JWT_SECRET must be set in production")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("invalid AUTH_BCRYPT_COST: %d", c.Auth.BcryptCost)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the session token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}
