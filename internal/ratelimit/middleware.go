package ratelimit

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/heart-risk-analyzer/internal/errors"
)

// BlockedHandler writes the response for a rejected request.
type BlockedHandler func(c *gin.Context, result *Result)

// JSONBlocked responds with a structured 429 error.
func JSONBlocked(c *gin.Context, result *Result) {
	appErr := apperrors.NewRateLimitError(strconv.Itoa(retrySeconds(result)) + "s")
	appErr.RequestID = c.GetString("request_id")
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
}

// IPRateLimitMiddleware limits requests per client IP. A nil onBlocked uses JSONBlocked.
func (rl *RateLimiter) IPRateLimitMiddleware(onBlocked BlockedHandler) gin.HandlerFunc {
	if onBlocked == nil {
		onBlocked = JSONBlocked
	}

	return func(c *gin.Context) {
		if !rl.Enabled() {
			c.Next()
			return
		}

		ip := c.ClientIP()

		result, err := rl.AllowIP(c.Request.Context(), ip)
		if err != nil {
			// never block on limiter failure
			slog.Error("Rate limit check failed", "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if rl.metrics != nil {
				rl.metrics.IncrementRateLimitIPBlock()
			}

			c.Header("Retry-After", strconv.Itoa(retrySeconds(result)))
			onBlocked(c, result)
			c.Abort()
			return
		}

		c.Next()
	}
}

func retrySeconds(result *Result) int {
	s := int(result.RetryAfter.Seconds() + 0.999)
	if s < 1 {
		s = 1
	}
	return s
}
