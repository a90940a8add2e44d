package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/config"
	dbRedis "github.com/kailas-cloud/folio/internal/db/redis"
	"github.com/kailas-cloud/folio/internal/domain/item"
	logpkg "github.com/kailas-cloud/folio/internal/logger"
	"github.com/kailas-cloud/folio/internal/metrics"
	catalogrepo "github.com/kailas-cloud/folio/internal/repository/catalog"
	recentrepo "github.com/kailas-cloud/folio/internal/repository/recent"
	sessionrepo "github.com/kailas-cloud/folio/internal/repository/session"
	"github.com/kailas-cloud/folio/internal/seed"
	chiTransport "github.com/kailas-cloud/folio/internal/transport/chi"
	wsTransport "github.com/kailas-cloud/folio/internal/transport/ws"
	adminuc "github.com/kailas-cloud/folio/internal/usecase/admin"
	cataloguc "github.com/kailas-cloud/folio/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/folio/internal/usecase/health"
	recentuc "github.com/kailas-cloud/folio/internal/usecase/recent"
	searchuc "github.com/kailas-cloud/folio/internal/usecase/search"
	"github.com/kailas-cloud/folio/internal/version"
)

const resubscribeDelay = time.Second

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting folio API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("admin_enabled", cfg.Auth.AdminEnabled()),
	)

	// Redis and Valkey speak the same protocol; one rueidis store serves both drivers.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Repositories
	itemRepo := catalogrepo.New(store)
	recentStore := recentrepo.New(store, cfg.Recent.TTL(), logger)
	sessions := sessionrepo.New(store)

	// Use case services
	catalogSvc := cataloguc.New(itemRepo, itemRepo, logger)
	snapshot := searchuc.NewSnapshot(itemRepo, logger)
	searchSvc := searchuc.New(snapshot, logger)
	recorder := recentuc.New(recentStore, cfg.Recent.Settle(), logger)
	defer recorder.Close()

	var phones []string
	if cfg.Auth.AdminEnabled() {
		phones = cfg.Auth.AdminPhones
	}
	adminSvc := adminuc.New(sessions, phones, cfg.Auth.Passcode, cfg.Auth.SessionTTL(), logger)
	healthSvc := healthuc.New(store, snapshot)

	if cfg.Catalog.SeedFile != "" {
		seedIfEmpty(ctx, catalogSvc, cfg.Catalog.SeedFile, logger)
	}

	if err := snapshot.Load(ctx); err != nil {
		logger.Fatal("Failed to load search snapshot", zap.Error(err))
	}
	go followChanges(ctx, snapshot, itemRepo, logger)

	if cfg.Catalog.WatchSeed {
		watcher := seed.NewWatcher(cfg.Catalog.SeedFile, catalogSvc, cfg.Catalog.WatchDebounce(), logger)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("Seed watcher stopped", zap.Error(err))
			}
		}()
	}

	live := wsTransport.NewHandler(searchSvc, recorder, snapshot, cfg.Search.Debounce(), logger)
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		live.WithCheckOrigin(allowOrigins(cfg.HTTP.AllowedOrigins))
	}

	server := chiTransport.NewServer(catalogSvc, searchSvc, recorder, adminSvc, healthSvc, logger).
		WithLive(live)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "bad_request", "method not allowed")
	})
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// seedIfEmpty loads the seed file into a catalog that has no items yet.
func seedIfEmpty(ctx context.Context, svc *cataloguc.Service, path string, logger *zap.Logger) {
	for _, kind := range item.Kinds() {
		items, err := svc.List(ctx, kind)
		if err != nil {
			logger.Warn("Seed skipped: cannot read catalog", zap.Error(err))
			return
		}
		if len(items) > 0 {
			logger.Info("Seed skipped: catalog not empty", zap.String("kind", string(kind)))
			return
		}
	}
	f, err := seed.Load(path)
	if err != nil {
		logger.Warn("Seed skipped", zap.Error(err))
		return
	}
	if _, err := seed.Apply(ctx, svc, f, logger); err != nil {
		logger.Warn("Seed incomplete", zap.Error(err))
	}
}

// followChanges keeps the snapshot in sync with catalog writes from every
// instance. A dropped subscription may have missed events, so the whole
// snapshot is reloaded before resubscribing.
func followChanges(ctx context.Context, snap *searchuc.Snapshot, sub searchuc.ChangeSubscriber, logger *zap.Logger) {
	for {
		err := snap.Run(ctx, sub)
		if ctx.Err() != nil {
			return
		}
		logger.Warn("Change subscription lost", zap.Error(err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(resubscribeDelay):
		}
		if err := snap.Load(ctx); err != nil {
			logger.Warn("Snapshot reload failed", zap.Error(err))
		}
	}
}

func allowOrigins(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeJSONError(w, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			ctx := logpkg.With(logpkg.ContextWithLogger(r.Context(), logger), zap.String("request_id", requestID))
			reqLogger := logpkg.FromContext(ctx)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line: one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
