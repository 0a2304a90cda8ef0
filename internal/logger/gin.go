package logger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinLogger logs one line per request. Client errors go out at warn, server errors at error,
// health probes at debug.
func GinLogger(l *zap.Logger, name string) gin.HandlerFunc {
	logger := l.Named(name)

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("type", "http_request"),
			zap.String("http_method", c.Request.Method),
			zap.String("http_path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.String("remote_addr", c.ClientIP()),
			zap.Int("http_status_code", status),
			zap.Int("response_bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		msg := fmt.Sprintf("HTTP request completed: %s", c.Request.URL.Path)
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(msg, fields...)
		case status >= http.StatusBadRequest:
			logger.Warn(msg, fields...)
		case isHealthCheck(c.Request.Method, c.Request.URL.Path):
			logger.Debug(msg, fields...)
		default:
			logger.Info(msg, fields...)
		}
	}
}

func isHealthCheck(method, path string) bool {
	return method == http.MethodGet && path == "/health"
}
