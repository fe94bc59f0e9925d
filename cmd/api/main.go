package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/database"
	"userhub/internal/email"
	httpServer "userhub/internal/http"
	"userhub/internal/logging"
	"userhub/internal/ratelimit"
	"userhub/internal/token"
	"userhub/internal/user"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Redis is optional: without it the rate limiter is disabled.
	var limiter *ratelimit.Limiter
	if cfg.Redis.Enabled() {
		redisClient, err := initRedis(cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()

		limiter = ratelimit.NewLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	} else {
		logger.Warn("Redis not configured, rate limiting disabled")
	}

	userStore := user.NewBunStore(db)
	refreshTokenStore := auth.NewBunRefreshTokenStore(db)

	codec, err := token.NewCodec(token.Config{
		Access:         token.KeyConfig{Secret: cfg.Auth.AccessTokenSecret, TTL: cfg.Auth.AccessTokenTTL},
		Refresh:        token.KeyConfig{Secret: cfg.Auth.RefreshTokenSecret, TTL: cfg.Auth.RefreshTokenTTL},
		EmailVerify:    token.KeyConfig{Secret: cfg.Auth.EmailVerifyTokenSecret, TTL: cfg.Auth.EmailVerifyTokenTTL},
		ForgotPassword: token.KeyConfig{Secret: cfg.Auth.ForgotPasswordTokenSecret, TTL: cfg.Auth.ForgotPasswordTokenTTL},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}

	hasher := auth.NewHasher(cfg.Auth.PasswordSuffixSecret)
	emailService := email.NewService(cfg.Server.BaseURL(), logger)

	authService := auth.NewService(
		userStore,
		refreshTokenStore,
		codec,
		hasher,
		emailService,
		logger,
		cfg.Auth.ResendDebounce,
	)

	validators := auth.NewValidators(userStore, refreshTokenStore, codec, hasher)

	isProduction := !cfg.Server.IsDevelopment()
	authHandler := auth.NewHandler(authService, validators, isProduction)
	authMiddleware := auth.NewMiddleware(codec, isProduction)

	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, limiter, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB opens the Postgres connection and wraps it with bun.
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}

// initRedis connects to Redis and verifies the connection.
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
