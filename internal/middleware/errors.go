package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"github.com/portfolio-site/core/internal/pkg/response"
	"go.uber.org/zap"
)

const msgInternal = "Internal Server Error"

// ErrorHandler recovers panics, logs every error recorded on the context and
// renders the ones no handler answered. Error detail, and the stack for panics, is only
// included when exposeDetail is set (non-production).
func ErrorHandler(log *zap.Logger, exposeDetail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.ContextKeyExposeErrors, exposeDetail)
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", RequestIDFrom(c)),
					zap.ByteString("stack", stack),
				)
				if c.Writer.Written() {
					c.Abort()
					return
				}
				body := gin.H{"success": false, "message": msgInternal}
				if exposeDetail {
					body["error"] = fmt.Sprint(r)
					body["stack"] = string(stack)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		status := apperror.StatusOf(last.Err)

		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.String("request_id", RequestIDFrom(c)),
			zap.Error(last.Err),
		)
		if c.Writer.Written() {
			return
		}

		message := last.Err.Error()
		if status == http.StatusInternalServerError {
			message = msgInternal
			if fallback, ok := last.Meta.(string); ok && fallback != "" {
				message = fallback
			}
		}
		body := gin.H{"success": false, "message": message}
		if exposeDetail && status == http.StatusInternalServerError {
			body["error"] = last.Err.Error()
		}
		c.AbortWithStatusJSON(status, body)
	}
}
