package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("IsProduction is case insensitive", func(t *testing.T) {
		assert.True(t, (&Config{AppEnv: "Production"}).IsProduction())
		assert.False(t, (&Config{AppEnv: "development"}).IsProduction())
	})

	t.Run("SMTPEnabled requires host and sender", func(t *testing.T) {
		assert.False(t, (&Config{SMTPHost: "smtp.example.com"}).SMTPEnabled())
		assert.True(t, (&Config{SMTPHost: "smtp.example.com", SMTPFrom: "wifi@example.com"}).SMTPEnabled())
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppEnv:     "development",
			JWTSecret:  "dev",
			SessionTTL: 24 * time.Hour,
			BcryptCost: 12,
			RedisURL:   "redis://localhost:6379",
		}
	}

	t.Run("accepts short secret outside production", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("rejects low bcrypt cost", func(t *testing.T) {
		cfg := base()
		cfg.BcryptCost = 4
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive session ttl", func(t *testing.T) {
		cfg := base()
		cfg.SessionTTL = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects short secret in production", func(t *testing.T) {
		cfg := base()
		cfg.AppEnv = "production"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("accepts strong secret in production", func(t *testing.T) {
		cfg := base()
		cfg.AppEnv = "production"
		cfg.JWTSecret = strings.Repeat("k", 48)
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	keys := []string{
		"PORT", "DATABASE_URL", "REDIS_URL", "JWT_SECRET", "SESSION_TTL",
		"BCRYPT_COST", "CORS_ORIGINS", "LOG_LEVEL", "APP_ENV",
	}
	originalEnv := make(map[string]string, len(keys))
	for _, k := range keys {
		originalEnv[k] = os.Getenv(k)
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	setRequired := func() {
		os.Setenv("DATABASE_URL", "postgres://localhost/test")
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Setenv("JWT_SECRET", "test-secret")
	}

	t.Run("loads config with defaults", func(t *testing.T) {
		setRequired()
		os.Unsetenv("PORT")
		os.Unsetenv("SESSION_TTL")
		os.Unsetenv("BCRYPT_COST")
		os.Unsetenv("CORS_ORIGINS")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("APP_ENV")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 5000, cfg.Port)
		assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, "development", cfg.AppEnv)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Len(t, cfg.CORSOrigins, 3)
	})

	t.Run("loads custom values", func(t *testing.T) {
		setRequired()
		os.Setenv("PORT", "8080")
		os.Setenv("SESSION_TTL", "2h")
		os.Setenv("CORS_ORIGINS", "https://wifi.ucu.ac.ug")
		os.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
		assert.Equal(t, []string{"https://wifi.ucu.ac.ug"}, cfg.CORSOrigins)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("fails without required DATABASE_URL", func(t *testing.T) {
		setRequired()
		os.Unsetenv("DATABASE_URL")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("fails without required JWT_SECRET", func(t *testing.T) {
		setRequired()
		os.Unsetenv("JWT_SECRET")

		_, err := Load()
		assert.Error(t, err)
	})
}
