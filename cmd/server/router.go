package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/analysis"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/assets"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/cache"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/errors"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/frontend"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/monitoring"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/ratelimit"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/security"

	_ "github.com/ZanzyTHEbar/heart-risk-analyzer/docs"
)

// Deps are the long-lived services the router needs.
type Deps struct {
	Loader       *assets.Loader
	Analyzer     *analysis.Analyzer
	Cache        *cache.Cache[analysis.Assessment]
	Redis        *ratelimit.RedisClient
	Limiter      *ratelimit.RateLimiter
	Metrics      *monitoring.Metrics
	Logger       *monitoring.Logger
	Renderer     *frontend.Renderer
	Security     security.SecurityConfig
	CSPReportURI string
}

// NewRouter wires middleware and routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	r := gin.New()

	if err := r.SetTrustedProxies(deps.Security.TrustedProxies); err != nil {
		return nil, err
	}

	// Recovery first so panics anywhere below are turned into 500s
	r.Use(errors.RecoveryHandler())
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(deps.Metrics, deps.Logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(deps.Logger, deps.Security.MaxBodyBytes))
	r.Use(errors.ErrorHandler())

	securityMiddleware := security.NewSecurityMiddleware(deps.Security)
	r.Use(securityMiddleware.SecurityHeaders())
	r.Use(security.CSPMiddleware(deps.CSPReportURI))
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.LimitBody)
	r.Use(securityMiddleware.ValidateContentType)

	if err := frontend.RegisterStatic(r); err != nil {
		return nil, err
	}

	web := frontend.NewHandler(deps.Renderer, deps.Analyzer, deps.Metrics, deps.Logger)
	r.GET("/", security.NoStore(), web.Index)
	r.POST("/assess", security.NoStore(), deps.Limiter.IPRateLimitMiddleware(web.RateLimited), web.Assess)

	api := newAPIHandler(deps)

	v1 := r.Group("/api/v1", securityMiddleware.CORS())
	{
		v1.POST("/assess", security.NoStore(), deps.Limiter.IPRateLimitMiddleware(ratelimit.JSONBlocked), api.assess)
		v1.GET("/schema", api.schema)
		// preflight requests are answered by the CORS middleware
		v1.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	r.GET("/health", api.health)
	r.GET("/stats", api.stats)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r, nil
}
