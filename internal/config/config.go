package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Protocol        string // http or https, used for advertised links
	Domain          string
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RateLimitConfig is the fixed window applied to the abuse-prone
// endpoints. It only takes effect when Redis is configured.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// AuthConfig carries one signing secret and TTL per token kind, the resend
// debounce window, and the suffix secret mixed into password hashes.
type AuthConfig struct {
	AccessTokenSecret         []byte
	RefreshTokenSecret        []byte
	EmailVerifyTokenSecret    []byte
	ForgotPasswordTokenSecret []byte

	AccessTokenTTL         time.Duration
	RefreshTokenTTL        time.Duration
	EmailVerifyTokenTTL    time.Duration
	ForgotPasswordTokenTTL time.Duration

	ResendDebounce       time.Duration
	PasswordSuffixSecret string
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Protocol:        getEnv("PROTOCOL", "http"),
			Domain:          getEnv("DOMAIN", "localhost"),
			Port:            getEnv("PORT", "4000"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USERNAME", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "userhub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Requests: getIntEnv("RATE_LIMIT_REQUESTS", 10),
			Window:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
		Auth: AuthConfig{
			AccessTokenSecret:         []byte(getEnv("JWT_SECRET_ACCESS_TOKEN", "")),
			RefreshTokenSecret:        []byte(getEnv("JWT_SECRET_REFRESH_TOKEN", "")),
			EmailVerifyTokenSecret:    []byte(getEnv("JWT_SECRET_EMAIL_VERIFY_TOKEN", "")),
			ForgotPasswordTokenSecret: []byte(getEnv("JWT_SECRET_FORGOT_PASSWORD_TOKEN", "")),

			AccessTokenTTL:         getDurationEnv("JWT_ACCESS_TOKEN_EXPIRES_IN", 15*time.Minute),
			RefreshTokenTTL:        getDurationEnv("JWT_REFRESH_TOKEN_EXPIRES_IN", 100*24*time.Hour),
			EmailVerifyTokenTTL:    getDurationEnv("JWT_EMAIL_VERIFY_TOKEN_EXPIRES_IN", 7*24*time.Hour),
			ForgotPasswordTokenTTL: getDurationEnv("JWT_FORGOT_PASSWORD_TOKEN_EXPIRES_IN", 7*24*time.Hour),

			ResendDebounce:       getDurationEnv("RESEND_EMAIL_DEBOUNCE_TIME", 60*time.Second),
			PasswordSuffixSecret: getEnv("PASSWORD_SUFFIX_SECRET", ""),
		},
	}

	for name, secret := range map[string][]byte{
		"JWT_SECRET_ACCESS_TOKEN":          cfg.Auth.AccessTokenSecret,
		"JWT_SECRET_REFRESH_TOKEN":         cfg.Auth.RefreshTokenSecret,
		"JWT_SECRET_EMAIL_VERIFY_TOKEN":    cfg.Auth.EmailVerifyTokenSecret,
		"JWT_SECRET_FORGOT_PASSWORD_TOKEN": cfg.Auth.ForgotPasswordTokenSecret,
	} {
		if len(secret) == 0 {
			return nil, fmt.Errorf("%s must not be empty", name)
		}
	}

	if cfg.Auth.PasswordSuffixSecret == "" {
		return nil, fmt.Errorf("PASSWORD_SUFFIX_SECRET must not be empty")
	}

	return cfg, nil
}

// BaseURL is the externally advertised address used in logged links.
func (c *ServerConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Domain, c.Port)
}

// IsDevelopment reports whether the environment is set to dev.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address returns the Redis connection address (host:port).
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Enabled reports whether a Redis host was configured at all.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getDurationEnv reads a duration given in whole seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
