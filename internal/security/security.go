package security

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/heart-risk-analyzer/internal/errors"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxBodyBytes   int64         `json:"max_body_bytes"`
	AllowedOrigins []string      `json:"allowed_origins"`
	TrustedProxies []string      `json:"trusted_proxies"`
	RequestTimeout time.Duration `json:"request_timeout"`
	EnableHSTS     bool          `json:"enable_hsts"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxBodyBytes:   8 << 10,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		TrustedProxies: []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		RequestTimeout: 30 * time.Second,
	}
}

// SecurityMiddleware bundles the request hardening middleware
type SecurityMiddleware struct {
	config SecurityConfig
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{config: config}
}

// Config returns the active configuration.
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// SecurityHeaders adds the static security headers
func (sm *SecurityMiddleware) SecurityHeaders() gin.HandlerFunc {
	return SecurityHeadersMiddleware(sm.config.EnableHSTS)
}

// ValidateContentType rejects POST bodies that are neither JSON nor a form
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Next()
		return
	}

	contentType := strings.ToLower(c.GetHeader("Content-Type"))

	allowedTypes := []string{
		"application/json",
		"application/x-www-form-urlencoded",
		"multipart/form-data",
	}

	if contentType != "" {
		for _, allowed := range allowedTypes {
			if strings.Contains(contentType, allowed) {
				c.Next()
				return
			}
		}

		appErr := apperrors.NewValidationError("unsupported content type", contentType)
		appErr.HTTPStatus = http.StatusUnsupportedMediaType
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
		return
	}

	c.Next()
}

// LimitBody caps the request body size
func (sm *SecurityMiddleware) LimitBody(c *gin.Context) {
	if sm.config.MaxBodyBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sm.config.MaxBodyBytes)
	}
	c.Next()
}

// RequestTimeout attaches a deadline to the request context
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	if sm.config.RequestTimeout <= 0 {
		c.Next()
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)

	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// CORS allows the configured origins to call the JSON API
func (sm *SecurityMiddleware) CORS() gin.HandlerFunc {
	if len(sm.config.AllowedOrigins) == 0 {
		// cors.New panics on an empty origin list; refuse every cross-origin call
		return func(c *gin.Context) {
			if c.GetHeader("Origin") != "" {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
		}
	}

	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(sm.config.AllowedOrigins) == 1 && sm.config.AllowedOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = sm.config.AllowedOrigins
	}

	return cors.New(cfg)
}
