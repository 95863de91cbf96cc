// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package api wires together the HTTP router, middleware chain, and all
view handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It is the composition root for the local HTTP surface (chi router).
  - Only this package and cmd/console import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fndrorato/webscrap-ia/internal/catalog"
	"github.com/fndrorato/webscrap-ia/internal/core/channel"
	"github.com/fndrorato/webscrap-ia/internal/core/product"
	"github.com/fndrorato/webscrap-ia/internal/core/report"
	"github.com/fndrorato/webscrap-ia/internal/core/session"
	"github.com/fndrorato/webscrap-ia/internal/platform/config"
	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	"github.com/fndrorato/webscrap-ia/internal/platform/middleware"
	"github.com/fndrorato/webscrap-ia/internal/users/account"
	"github.com/fndrorato/webscrap-ia/internal/users/auth"
	"github.com/fndrorato/webscrap-ia/internal/users/user"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups every handler set mounted by [NewServer].
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	// Auth handles sign-in, sign-out and the current identity.
	Auth *auth.Handler

	// Account handles the profile photo and password change.
	Account *account.Handler

	// Users backs the staff account management screen.
	Users *user.Handler

	// Sessions backs the messaging-session screen.
	Sessions *session.Handler

	// Products backs the product moderation screen.
	Products *product.Handler

	// Channels backs the broadcast channel screen.
	Channels *channel.Handler

	// Reports serves the post report.
	Reports *report.Handler

	// Catalog exposes the active selection catalog.
	Catalog *catalog.Handler
}

// # Server Initialization

/*
NewServer constructs the chi router with the full middleware chain and
registers all route groups.

Parameters:
  - context: context.Context (bounds the rate limiter's janitor)
  - cfg: *config.Config
  - log: *slog.Logger
  - sessions: middleware.SessionSource (gates everything except /auth)
  - h: Handlers

Returns:
  - *Server: Ready to [Server.ListenAndServe]
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, sessions middleware.SessionSource, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg, cfg.ExtraOrigins))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Group(func(gated chi.Router) {
			gated.Use(middleware.RequireSession(sessions))

			gated.Mount("/account", h.Account.Routes())
			gated.Mount("/users", h.Users.Routes())
			gated.Mount("/sessions", h.Sessions.Routes())
			gated.Mount("/products", h.Products.Routes())
			gated.Mount("/channels", h.Channels.Routes())
			gated.Mount("/reports", h.Reports.Routes())
			gated.Mount("/catalog", h.Catalog.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ListenPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// # Server Lifecycle

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
