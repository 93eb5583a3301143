package middleware

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/pkg/limiter"
	"github.com/portfolio-site/core/internal/pkg/response"
	"go.uber.org/zap"
)

// RateLimitOptions configures one fixed-window limiter.
type RateLimitOptions struct {
	Name    string
	Max     int
	Window  time.Duration
	Message string
	// Match restricts the limiter to some requests. Nil means all.
	Match func(c *gin.Context) bool
}

// RateLimit caps requests per client IP per window. Requests carrying an
// Authorization header are never counted. Store failures let the request through.
func RateLimit(store limiter.Store, opts RateLimitOptions, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if HasAuthorizationHeader(c) || (opts.Match != nil && !opts.Match(c)) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		count, reset, err := store.Hit(c.Request.Context(), opts.Name+":"+ip, opts.Window)
		if err != nil {
			log.Warn("rate limit store failed", zap.String("limiter", opts.Name), zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(opts.Max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(opts.Max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(opts.Max) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(reset.Seconds()))))
			response.TooManyRequests(c, opts.Message)
			return
		}

		c.Next()
	}
}

// PathPrefix matches requests under prefix.
func PathPrefix(prefix string) func(c *gin.Context) bool {
	return func(c *gin.Context) bool {
		return strings.HasPrefix(c.Request.URL.Path, prefix)
	}
}

// MethodPath matches one method on one exact path.
func MethodPath(method, path string) func(c *gin.Context) bool {
	return func(c *gin.Context) bool {
		return c.Request.Method == method && (c.Request.URL.Path == path || c.Request.URL.Path == path+"/")
	}
}
