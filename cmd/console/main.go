// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

// Command console is the entry point for the channel console.
//
// # Startup Sequence
//
//  1. Load .env and configuration from environment variables.
//  2. Initialize structured logger.
//  3. Open the durable client-state backend (migrating it when relational).
//  4. Rehydrate the session store and build the REST client.
//  5. Verify a rehydrated session with the collaborator.
//  6. Wire views, the live subscriber factory and HTTP handlers.
//  7. Serve until a signal arrives, then shut down gracefully.
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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/fndrorato/webscrap-ia/internal/api"
	"github.com/fndrorato/webscrap-ia/internal/catalog"
	"github.com/fndrorato/webscrap-ia/internal/core/channel"
	"github.com/fndrorato/webscrap-ia/internal/core/product"
	"github.com/fndrorato/webscrap-ia/internal/core/report"
	"github.com/fndrorato/webscrap-ia/internal/core/session"
	"github.com/fndrorato/webscrap-ia/internal/live"
	"github.com/fndrorato/webscrap-ia/internal/platform/clientstate"
	"github.com/fndrorato/webscrap-ia/internal/platform/config"
	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	"github.com/fndrorato/webscrap-ia/internal/platform/ctxutil"
	"github.com/fndrorato/webscrap-ia/internal/platform/migration"
	"github.com/fndrorato/webscrap-ia/internal/platform/upstream"
	"github.com/fndrorato/webscrap-ia/internal/users/account"
	"github.com/fndrorato/webscrap-ia/internal/users/auth"
	"github.com/fndrorato/webscrap-ia/internal/users/user"
)

// verifyTimeout bounds the boot-time token check.
const verifyTimeout = 10 * time.Second

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	// A missing .env is fine; the real environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// ── 2. Logger ─────────────────────────────────────────────────────────
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ListenPort),
		slog.String("state_backend", cfg.StateBackend),
	)

	root, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	root = ctxutil.WithLogger(root, log)

	startupCtx, startupCancel := context.WithTimeout(root, 30*time.Second)
	defer startupCancel()

	// ── 3. Client State ───────────────────────────────────────────────────
	storage, err := openStorage(startupCtx, cfg, log)
	must(log, err, "open client state")
	defer func() {
		log.Info("closing_client_state")
		if cerr := storage.Close(); cerr != nil {
			log.Error("client_state_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 4. Session Store & REST Client ────────────────────────────────────
	store, err := auth.Open(startupCtx, storage, log)
	must(log, err, "open session store")

	client, err := upstream.New(upstream.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.UpstreamTimeout,
		RPS:     cfg.UpstreamRPS,
		Burst:   cfg.UpstreamBurst,
	}, store)
	must(log, err, "build upstream client")

	authService := auth.NewService(store, auth.NewRemoteGateway(client))

	// ── 5. Boot Verification ──────────────────────────────────────────────
	if _, present := store.Current(); present {
		verifyCtx, cancel := context.WithTimeout(startupCtx, verifyTimeout)
		valid, verr := authService.Verify(verifyCtx)
		cancel()

		switch {
		case verr != nil:
			log.Warn("session_verify_skipped", slog.Any("error", verr))
		case !valid:
			log.Info("session_expired_on_boot")
		default:
			log.Info("session_restored")
		}
	}

	// ── 6. Views & Handlers ───────────────────────────────────────────────
	endpoint, err := live.EndpointFor(cfg.APIBaseURL, cfg.EventStreamPath)
	must(log, err, "derive event stream endpoint")

	liveOptions := live.Options{
		URL:              endpoint,
		HandshakeTimeout: constants.PushHandshakeTimeout,
		Logger:           log,
	}
	if cfg.EventStreamAuth {
		liveOptions.Tokens = store
	}
	policy := live.Policy(cfg.ReconnectMinDelay, cfg.ReconnectMaxDelay, cfg.ReconnectMaxRetries)

	subscribe := func(handler live.Handler) session.Subscriber {
		return live.NewSubscriber(liveOptions, policy, handler)
	}

	sessionView := session.NewView(session.NewRemoteRepository(client), subscribe, log)
	productRepository := product.NewRemoteRepository(client)
	productView := product.NewView(productRepository, store, log)
	channelRepository := channel.NewRemoteRepository(client)
	channelView := channel.NewView(channelRepository, log)
	channelThread := channel.NewThread(channelRepository, log)
	userView := user.NewView(user.NewRemoteRepository(client), cfg.NewUserPassword, log)
	reportService := report.NewService(report.NewRemoteRepository(client), log)

	unmountAll := func() {
		sessionView.Unmount()
		productView.Unmount()
		channelView.Unmount()
		channelThread.Unmount()
		userView.Unmount()
		reportService.Reset()
	}
	authService.OnLogout(unmountAll)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckState:    storage.Ping,
		CheckUpstream: client.Ping,
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(account.NewService(account.NewRemoteRepository(client), store)),
		Sessions:  session.NewHandler(sessionView),
		Products:  product.NewHandler(productView, product.NewSearcher(productRepository, log)),
		Channels:  channel.NewHandler(channelView, channelThread),
		Reports:   report.NewHandler(reportService),
		Users:     user.NewHandler(userView),
		Catalog:   catalog.NewHandler(store),
	}

	server := api.NewServer(root, cfg, log, store, handlers)

	// ── 7. Serve & Graceful Shutdown ──────────────────────────────────────
	group, groupCtx := errgroup.WithContext(root)

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server_failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

		unmountAll()
		return server.Shutdown(constants.ShutdownTimeout)
	})

	if err := group.Wait(); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// openStorage selects the client-state backend named by cfg.StateBackend.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (clientstate.Storage, error) {
	switch cfg.StateBackend {
	case config.BackendMemory:
		log.Warn("client_state_in_memory", slog.String("note", "session is lost on restart"))
		return clientstate.NewMemory(), nil

	case config.BackendRedis:
		return clientstate.NewRedis(ctx, cfg.RedisURL, cfg.StateNamespace, log)

	case config.BackendPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, log); err != nil {
			return nil, err
		}
		return clientstate.NewPostgres(ctx, cfg.DatabaseURL, cfg.StateNamespace, log)

	default:
		return clientstate.NewFile(clientstate.FileOptions{
			Path:      cfg.StateFile,
			Secret:    cfg.StateSecret,
			Namespace: cfg.StateNamespace,
		})
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// It is limited to startup wiring; after startup, errors are returned.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
