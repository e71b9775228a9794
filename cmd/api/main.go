// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the screencast site.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Load the episode catalogue and page templates.
//  7. Wire the third-party providers and the site.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/mattn/go-isatty"

	"github.com/taibuivan/yomira-cast/internal/api"
	"github.com/taibuivan/yomira-cast/internal/catalog"
	"github.com/taibuivan/yomira-cast/internal/platform/config"
	"github.com/taibuivan/yomira-cast/internal/platform/constants"
	"github.com/taibuivan/yomira-cast/internal/platform/migration"
	pgstore "github.com/taibuivan/yomira-cast/internal/platform/postgres"
	redisstore "github.com/taibuivan/yomira-cast/internal/platform/redis"
	"github.com/taibuivan/yomira-cast/internal/platform/sec"
	"github.com/taibuivan/yomira-cast/internal/provider/billing"
	"github.com/taibuivan/yomira-cast/internal/provider/github"
	"github.com/taibuivan/yomira-cast/internal/provider/video"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/site"
	"github.com/taibuivan/yomira-cast/internal/users"
	"github.com/taibuivan/yomira-cast/internal/view"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured.
	terminal := isatty.IsTerminal(os.Stdout.Fd())
	log := newLogger(terminal, slog.LevelInfo)
	slog.SetDefault(log)

	if terminal {
		figure.NewFigure(constants.AppName, "cybermedium", true).Print()
		fmt.Println()
	}

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(terminal, slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Duration("async_timeout", cfg.AsyncTimeout),
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

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Content ────────────────────────────────────────────────────────
	content, err := catalog.Load(cfg.CatalogPath)
	must(log, err, "load catalog")
	log.Info("catalog_loaded",
		slog.Int("episodes", len(content.Episodes())),
		slog.Int("collections", len(content.Collections())),
		slog.Int("plans", len(content.Plans())),
	)

	renderer, err := view.New()
	must(log, err, "parse templates")

	// ── 7. Providers & Site ───────────────────────────────────────────────
	if cfg.GithubClientID == "" {
		log.Warn("github_oauth_unconfigured")
	}
	githubClient := github.New(cfg.GithubClientID, cfg.GithubClientSecret, cfg.BaseURL+route.GithubCallback{}.Path())

	cast := site.New(site.Dependencies{
		Catalog:  content,
		Renderer: renderer,
		Signer:   sec.NewStateSigner(cfg.SessionSecret, constants.StateIssuer),
		GitHub:   githubClient,
		Billing:  billing.New(cfg.BillingBaseURL, cfg.BillingAPIKey),
		Video:    video.New(cfg.VideoBaseURL, cfg.VideoAPIToken),
	}, site.Options{
		BaseURL:             cfg.BaseURL,
		SecureCookies:       cfg.IsProduction(),
		AssetPath:           cfg.AssetPath,
		AssetMaxAge:         cfg.AssetMaxAge,
		WebhookUser:         cfg.BillingWebhookUser,
		WebhookPasswordHash: cfg.BillingWebhookPasswordHash,
	})

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Pipeline{
		Responder:    cast,
		Store:        users.NewStore(pool, rdb),
		AsyncTimeout: cfg.AsyncTimeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
	})

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
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

// newLogger writes text to terminals and JSON everywhere else.
func newLogger(terminal bool, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, options)
	if terminal {
		handler = slog.NewTextHandler(os.Stdout, options)
	}

	// Add global context to all log entries.
	return slog.New(handler).With(slog.String("app", constants.AppName))
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
