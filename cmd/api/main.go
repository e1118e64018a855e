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

	"news-extractor/internal/app"
	"news-extractor/internal/observability/logging"
	"news-extractor/internal/observability/tracing"
	pkgconfig "news-extractor/pkg/config"

	_ "news-extractor/docs" // swagger docs
)

// @title           News Extractor API
// @version         1.0
// @description     Extracts, classifies and summarizes news articles and stores them in Airtable.

// @contact.name   API Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token. Send "Bearer {token}" in the Authorization header.

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env file not loaded", slog.Any("error", err))
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg := app.LoadServerConfig()
	validateJWTSecret(logger, cfg.JWTSecret)

	shutdownTracing := tracing.Setup(pkgconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := app.Build(ctx, logger)
	if err != nil {
		logger.Error("failed to assemble pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	handler, limiter := components.Handler(cfg, logger)
	if limiter != nil {
		go limiter.StartCleanup(ctx, cfg.RateLimit.CleanupInterval)
		logger.Info("rate limiting enabled",
			slog.Float64("rps", cfg.RateLimit.RPS),
			slog.Int("burst", cfg.RateLimit.Burst),
			slog.Int("trusted_proxies", len(cfg.RateLimit.TrustedProxies)))
	}

	go components.SLO.Run(ctx, time.Minute)

	addr := pkgconfig.GetEnvString("HTTP_ADDR", ":8000")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	// Stops the rate limiter cleanup and SLO publishing loops.
	cancel()

	if err := components.Close(shutdownCtx); err != nil {
		logger.Error("component shutdown failed", slog.Any("error", err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

// validateJWTSecret rejects secrets shorter than 256 bits. An empty secret
// is allowed and leaves /process_url unauthenticated.
func validateJWTSecret(logger *slog.Logger, secret []byte) {
	if len(secret) == 0 {
		return
	}
	if len(secret) < 32 {
		logger.Error("JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
}
