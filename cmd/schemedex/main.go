package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/config"
	logpkg "github.com/kailas-cloud/schemedex/internal/logger"
	"github.com/kailas-cloud/schemedex/internal/metrics"
	"github.com/kailas-cloud/schemedex/internal/redact"
	"github.com/kailas-cloud/schemedex/internal/source"
	chiTransport "github.com/kailas-cloud/schemedex/internal/transport/chi"
	"github.com/kailas-cloud/schemedex/internal/transport/pamphlet"
	cataloguc "github.com/kailas-cloud/schemedex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/schemedex/internal/usecase/health"
	"github.com/kailas-cloud/schemedex/internal/version"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

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

	logger.Info("Starting schemedex server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("source_driver", cfg.Source.Driver),
		zap.String("sheet", cfg.Source.Sheet),
	)

	ctx := context.Background()

	src, err := source.Open(ctx, &cfg.Source)
	if err != nil {
		logger.Fatal("Failed to open source", zap.String("error", redact.Error(err)))
	}

	metrics.RegisterCatalogMetrics()

	fetcher := pamphlet.NewFetcher(pamphlet.Config{
		Timeout:      cfg.Pamphlet.Timeout(),
		MaxBytes:     cfg.Pamphlet.MaxBytes,
		RateLimitRPS: cfg.Pamphlet.RateLimitRPS,
		Burst:        cfg.Pamphlet.Burst,
		Logger:       logger,
	})

	catalog := cataloguc.New(src, fetcher, metrics.CatalogRecorder{}, cataloguc.Config{
		SourceID: cfg.Source.ID,
		Sheet:    cfg.Source.Sheet,
		Timeout:  cfg.Source.Timeout(),
	}, logger)

	// The catalog must load once before serving
	if _, err := catalog.Load(ctx); err != nil {
		logger.Fatal("Initial catalog load failed", zap.String("error", redact.Error(err)))
	}

	healthSvc := healthuc.New(catalog, catalog)
	server := chiTransport.NewServer(catalog, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
