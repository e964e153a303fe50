// Copyright (c) 2026 Inkwell CMS. All rights reserved.

// Command api is the entry point for the Inkwell CMS HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (.env honored in dev).
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when configured (revocation registry backend).
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers and the authentication gate.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/inkwell-cms/api/internal/api"
	"github.com/inkwell-cms/api/internal/platform/config"
	"github.com/inkwell-cms/api/internal/platform/constants"
	"github.com/inkwell-cms/api/internal/platform/metrics"
	"github.com/inkwell-cms/api/internal/platform/migration"
	pgstore "github.com/inkwell-cms/api/internal/platform/postgres"
	redisstore "github.com/inkwell-cms/api/internal/platform/redis"
	"github.com/inkwell-cms/api/internal/platform/sec"
	"github.com/inkwell-cms/api/internal/users/account"
	"github.com/inkwell-cms/api/internal/users/auth"
	"github.com/inkwell-cms/api/internal/users/permission"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Inkwell] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A .env file is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application lifetime context. Cancelled at shutdown, it stops the
	// background janitors (rate limiter, in-memory revocation registry).
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Revocation Registry ────────────────────────────────────────────
	// Redis-backed when REDIS_URL is set (required for multi-instance
	// deployments), in-memory otherwise.
	var revocations auth.RevocationRegistry
	checkCache := (func() error)(nil)

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		revocations = auth.NewRedisRevocationRegistry(rdb)
		checkCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
		log.Info("revocation_registry_selected", slog.String("backend", "redis"))
	} else {
		revocations = auth.NewMemoryRevocationRegistry(appCtx)
		log.Info("revocation_registry_selected", slog.String("backend", "memory"))
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service & Metrics ────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.TokenTTL)
	must(log, err, "initialize jwt service")

	metrics.Init()

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: checkCache,
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	permissionRepository := permission.NewRepository(pool)
	permissionService := permission.NewService(permissionRepository)
	permissionHandler := permission.NewHandler(permissionService)

	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, jwtSvc, revocations, permissionService)
	authHandler := auth.NewHandler(authService)

	accountRepository := account.NewAccountRepository(pool)
	accountService := account.NewService(accountRepository)
	accountHandler := account.NewHandler(accountService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	gate := api.Gate{
		Verifier:    jwtSvc,
		Revocations: revocations,
		Subjects:    authService,
		Permissions: permissionService,
	}

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       authHandler,
		Permission: permissionHandler,
		Account:    accountHandler,
	}

	server := api.NewServer(appCtx, cfg, log, gate, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
