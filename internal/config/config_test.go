package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("JWT_SECRET_ACCESS_TOKEN", "access-secret")
	t.Setenv("JWT_SECRET_REFRESH_TOKEN", "refresh-secret")
	t.Setenv("JWT_SECRET_EMAIL_VERIFY_TOKEN", "email-verify-secret")
	t.Setenv("JWT_SECRET_FORGOT_PASSWORD_TOKEN", "forgot-password-secret")
	t.Setenv("PASSWORD_SUFFIX_SECRET", "suffix-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "http://localhost:4000", cfg.Server.BaseURL())
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 60*time.Second, cfg.Auth.ResendDebounce)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PROTOCOL", "https")
	t.Setenv("DOMAIN", "api.example.com")
	t.Setenv("PORT", "8443")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRES_IN", "900")
	t.Setenv("RESEND_EMAIL_DEBOUNCE_TIME", "120")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("TRUSTED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com:8443", cfg.Server.BaseURL())
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 900*time.Second, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 120*time.Second, cfg.Auth.ResendDebounce)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Address())
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.TrustedOrigins)
}

func TestLoadRequiresSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET_REFRESH_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_REFRESH_TOKEN")
}

func TestLoadRequiresPasswordSuffix(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PASSWORD_SUFFIX_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "svc",
		Password: "pw",
		DBName:   "userhub",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=svc password=pw dbname=userhub sslmode=require",
		cfg.ConnectionString(),
	)
}
