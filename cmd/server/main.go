package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/analysis"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/assets"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/cache"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/config"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/errors"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/frontend"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/monitoring"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/ratelimit"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/security"
)

// @title        Heart Risk Analyzer API
// @version      1.0.0
// @description  Heart-disease risk inference over a pre-trained classifier.
// @BasePath     /
func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)

	// Structured logging setup
	appLogger := monitoring.NewLogger(monitoring.LoggerConfig{Level: cfg.LogLevel, File: cfg.LogFile})
	defer errors.SafeClose(appLogger, "log file")
	slog.SetDefault(appLogger.Logger)

	appMetrics := monitoring.NewMetrics()

	// Load the artifacts once at startup. A failure is not fatal: the
	// server stays up and serves the blocking page and a degraded /health.
	loader := assets.NewLoader(cfg.Files(), appLogger.Logger)
	bundle, loadErr := loader.Load()
	status, _ := loader.Status()
	columns := 0
	if bundle != nil {
		columns = bundle.Schema.Len()
	}
	appLogger.AssetsLogger(status, columns, loadErr)
	appMetrics.SetAssetsLoaded(loadErr == nil)

	opts := []analysis.Option{
		analysis.WithDelay(cfg.AnalysisDelay),
		analysis.WithLogger(appLogger.Logger),
	}

	var assessmentCache *cache.Cache[analysis.Assessment]
	if cfg.CacheSize > 0 {
		assessmentCache, err = cache.New[analysis.Assessment](cfg.CacheSize)
		if err != nil {
			return errors.WrapError(err, "failed to create assessment cache")
		}
		opts = append(opts, analysis.WithCache(assessmentCache))
	}

	analyzer := analysis.NewAnalyzer(loader, opts...)

	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		appLogger.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer errors.SafeClose(redisClient, "redis client")

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.IPLimitPerMin = cfg.RateLimitPerMin
	limiter := ratelimit.NewRateLimiter(redisClient, limiterConfig, appMetrics)
	defer limiter.Close()

	renderer, err := frontend.NewRenderer()
	if err != nil {
		return errors.WrapError(err, "failed to load templates")
	}

	securityConfig := security.DefaultSecurityConfig()
	securityConfig.RequestTimeout = cfg.RequestTimeout
	securityConfig.MaxBodyBytes = cfg.MaxBodyBytes
	securityConfig.AllowedOrigins = cfg.Origins()
	securityConfig.EnableHSTS = cfg.EnableHSTS

	r, err := NewRouter(Deps{
		Loader:       loader,
		Analyzer:     analyzer,
		Cache:        assessmentCache,
		Redis:        redisClient,
		Limiter:      limiter,
		Metrics:      appMetrics,
		Logger:       appLogger,
		Renderer:     renderer,
		Security:     securityConfig,
		CSPReportURI: cfg.CSPReportURI,
	})
	if err != nil {
		return errors.WrapError(err, "failed to build router")
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.SystemLogger("startup", "listening on "+cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return errors.WrapError(err, "server failed to start")
		}
		return nil
	case <-quit:
	}

	appLogger.SystemLogger("shutdown", "draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return errors.WrapError(err, "server forced to shutdown")
	}

	appLogger.SystemLogger("shutdown", "server exited")
	return nil
}
