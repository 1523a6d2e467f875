package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "a-sufficiently-long-signing-secret-123456"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8081, cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, devSecret, cfg.JWTSecret)
}

func TestLoad_SecretRequiredOutsideDevelopment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32")
}

func TestLoad_RejectsNonPositiveAccessTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", strongSecret)
	t.Setenv("ACCESS_TOKEN_TTL", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_TTL")
}

func TestLoad_RefreshTTLMustExceedAccessTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", strongSecret)
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("REFRESH_TOKEN_TTL", "30m")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_TOKEN_TTL")
}

func TestPostgresConfig_DSN(t *testing.T) {
	t.Setenv("JWT_SECRET", strongSecret)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "users_test")

	cfg, err := Load()
	require.NoError(t, err)

	dsn := cfg.PostgresConfig().DSN()
	assert.True(t, strings.Contains(dsn, "db.internal"))
	assert.True(t, strings.Contains(dsn, "users_test"))
}
