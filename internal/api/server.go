// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and the route
pipeline into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Requests are parsed into route values here and handed to the site as pure
    computations; [Executor] is the only place where they touch the response.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"code.hybscloud.com/kont"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/platform/config"
	"github.com/taibuivan/yomira-cast/internal/platform/constants"
	"github.com/taibuivan/yomira-cast/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-cast/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-cast/internal/platform/request"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/site"
	"github.com/taibuivan/yomira-cast/internal/users"
)

// # Server Definitions

// Responder turns a parsed request into its response computation.
// [site.Site] is the production implementation.
type Responder interface {
	Respond(request site.Request) kont.Eff[effect.Done]
}

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups the handlers that run outside the route pipeline.
type Handlers struct {
	// Liveness is the /health handler. It always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc
}

// Pipeline is everything needed to run a route computation.
type Pipeline struct {
	Responder    Responder
	Store        *users.Store
	AsyncTimeout time.Duration
	MaxBodyBytes int64
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers the route table.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, pipeline Pipeline, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.SessionCookie(constants.SessionCookieName))
	r.Use(middleware.StructuredLogger(log, cfg.TrustProxyHeaders))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, cfg.TrustProxyHeaders))
	r.Use(middleware.PanicRecovery(log))
	r.Use(chimw.CleanPath)
	r.Use(chimw.GetHead)

	// # Infrastructure Endpoints
	// Health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Site
	Mount(r, pipeline.Serve)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Route Pipeline

// Serve runs the computation for r against the live exchange.
func (pipeline Pipeline) Serve(writer http.ResponseWriter, request *http.Request, r route.Route) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx).With(slog.String("route", route.Name(r)))

	siteRequest := site.Request{
		Route:     r,
		URI:       requestutil.URI(request),
		SessionID: ctxutil.GetSessionID(ctx),
		Logger:    logger,
	}
	if user, password, ok := requestutil.BasicAuth(request); ok {
		siteRequest.Credentials = &site.Credentials{User: user, Password: password}
	}

	executor := NewExecutor(writer, request, pipeline.Store, pipeline.MaxBodyBytes)
	report := effect.Run[*users.Store](ctx, executor, pipeline.Responder.Respond(siteRequest), effect.Options{
		AsyncTimeout: pipeline.AsyncTimeout,
		Logger:       logger,
	})

	logger.DebugContext(ctx, "route_completed",
		slog.Int("status", report.Status),
		slog.Int("queries", report.Queries),
		slog.Int("awaits", report.Awaits),
		slog.Bool("body_read", report.BodyRead),
	)
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
