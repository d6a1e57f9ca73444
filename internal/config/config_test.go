package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "session_token", cfg.Auth.CookieName)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "admin@eduplatform.ma", cfg.Seed.AdminEmail)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRejectsInvalidInt(t *testing.T) {
	t.Setenv("REDIS_DB", "three")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "dev secret in production", mutate: func(c *Config) { c.App.Env = "production" }, wantErr: true},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Auth.BcryptCost = 2 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				App:  AppConfig{Env: "development"},
				Auth: AuthConfig{JWTSecret: "dev-secret", BcryptCost: 10},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestTimeoutDisabled(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
	assert.Equal(t, time.Hour, AuthConfig{}.AccessTokenTTL())
}
