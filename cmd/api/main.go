// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

// Command api is the entry point for the DocSafe HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Connect to the object store and ensure the upload bucket.
//  6. Run database migrations (idempotent).
//  7. Build the security codecs from their three independent secrets.
//  8. Wire domain services and HTTP handlers.
//  9. Start HTTP server with graceful shutdown.
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

	miniosdk "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/docsafe-app/docsafe/internal/api"
	"github.com/docsafe-app/docsafe/internal/chat"
	"github.com/docsafe-app/docsafe/internal/document"
	"github.com/docsafe-app/docsafe/internal/identity"
	"github.com/docsafe-app/docsafe/internal/platform/config"
	"github.com/docsafe-app/docsafe/internal/platform/constants"
	"github.com/docsafe-app/docsafe/internal/platform/migration"
	pgstore "github.com/docsafe-app/docsafe/internal/platform/postgres"
	redisstore "github.com/docsafe-app/docsafe/internal/platform/redis"
	"github.com/docsafe-app/docsafe/internal/platform/sec"
	blobstore "github.com/docsafe-app/docsafe/internal/storage/minio"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[DocSafe] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
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

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Object Store ───────────────────────────────────────────────────
	minioClient, err := miniosdk.New(cfg.S3Endpoint, &miniosdk.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	must(log, err, "create object store client")

	blobs, err := blobstore.NewStore(startupCtx, minioClient, cfg.S3Bucket)
	must(log, err, "ensure upload bucket")
	log.Info("object store ready", slog.String("bucket", cfg.S3Bucket))

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Security Codecs ────────────────────────────────────────────────
	selectors, err := sec.NewSelectorDeriver(cfg.SelectorSecret)
	must(log, err, "initialize selector deriver")

	sessions, err := sec.NewSessionCodec(
		cfg.SessionSecret,
		cfg.SessionAlgorithm,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute,
		constants.AuthIssuer,
	)
	must(log, err, "initialize session codec")

	capabilities, err := sec.NewCapabilityCodec(cfg.DownloadSecret)
	must(log, err, "initialize capability codec")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckObjectStore: func() error {
			_, err := minioClient.BucketExists(context.Background(), cfg.S3Bucket)
			return err
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	userRepository := identity.NewUserRepository(pool)
	identityService, err := identity.NewService(userRepository, selectors, sessions)
	must(log, err, "initialize identity service")
	identityHandler := identity.NewHandler(identityService)

	documentRepository := document.NewDocumentRepository(pool)
	listCache := document.NewListCache(rdb)
	documentService := document.NewService(
		documentRepository,
		listCache,
		blobs,
		capabilities,
		time.Duration(cfg.DownloadTokenTTLSeconds)*time.Second,
	)
	documentHandler := document.NewHandler(documentService)

	chatService := chat.NewService(cfg.GeminiAPIKey, cfg.GeminiModel)
	chatHandler := chat.NewHandler(chatService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      identityHandler,
		Documents: documentHandler,
		Chat:      chatHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, identityService, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
