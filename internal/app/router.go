package app

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	hhttp "news-extractor/internal/handler/http"
	"news-extractor/internal/handler/http/process"
	"news-extractor/internal/handler/http/requestid"
	"news-extractor/internal/observability/tracing"
	pkgconfig "news-extractor/pkg/config"
)

// ServerConfig controls the HTTP surface shared by the API server and the
// Lambda handler.
type ServerConfig struct {
	Version           string
	JWTSecret         []byte
	LegacyErrorStatus bool
	MaxBodyBytes      int64
	RequestTimeout    time.Duration
	RateLimit         pkgconfig.RateLimitConfig
}

// LoadServerConfig reads VERSION, JWT_SECRET, LEGACY_ERROR_STATUS,
// MAX_BODY_BYTES (default 1MiB), REQUEST_TIMEOUT (default 120s, 0 disables)
// and the RATELIMIT_* settings.
func LoadServerConfig() ServerConfig {
	return ServerConfig{
		Version:           pkgconfig.GetEnvString("VERSION", "dev"),
		JWTSecret:         []byte(pkgconfig.GetEnvString("JWT_SECRET", "")),
		LegacyErrorStatus: pkgconfig.GetEnvBool("LEGACY_ERROR_STATUS", false),
		MaxBodyBytes:      int64(pkgconfig.GetEnvInt("MAX_BODY_BYTES", 1<<20)),
		RequestTimeout:    pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", 120*time.Second),
		RateLimit:         pkgconfig.LoadRateLimitConfig(),
	}
}

// Handler builds the routed and instrumented HTTP handler. The returned
// RateLimiter is nil when rate limiting is disabled; callers that live
// longer than one request should run its cleanup loop.
//
// Middleware order, outermost first: request ID, tracing, logging, SLO
// tracking, recovery, metrics, input validation, timeout.
func (c *Components) Handler(cfg ServerConfig, logger *slog.Logger) (http.Handler, *hhttp.RateLimiter) {
	mux := http.NewServeMux()

	var limiter *hhttp.RateLimiter
	var limit func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled {
		limiter = hhttp.NewRateLimiter(cfg.RateLimit)
		limit = limiter.Limit
	} else {
		logger.Warn("rate limiting is disabled")
	}

	if len(cfg.JWTSecret) == 0 {
		logger.Warn("JWT_SECRET not set, /process_url is unauthenticated")
	}

	process.Register(mux, process.Handler{
		Svc:               c.Pipeline,
		LegacyErrorStatus: cfg.LegacyErrorStatus,
	}, cfg.JWTSecret, limit)

	mux.Handle("GET /health", &hhttp.HealthHandler{Version: cfg.Version, Checks: c.Checks})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Checks: c.Checks})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	handler := hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		c.SLO.Middleware,
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware,
		hhttp.InputValidation(cfg.MaxBodyBytes),
		hhttp.Timeout(cfg.RequestTimeout),
	)
	return handler, limiter
}
