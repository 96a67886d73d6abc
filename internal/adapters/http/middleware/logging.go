package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

// probePrefix marks health, build and metrics routes, which are not logged.
const probePrefix = "/-/"

// Logging writes one access log line per request once it has been served.
// The line is written through the request's own logger, so it carries the
// request, correlation, trace and session ids that later middleware added.
// Server errors log at ERROR, client errors at WARN.
//
// logger is used when the request carries no logger of its own.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, probePrefix) {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path

		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}

		c.Next()

		reqLogger, ok := logging.LoggerFrom(c.Request.Context())
		if !ok {
			reqLogger = logger
		}

		status := c.Writer.Status()
		latency := time.Since(start)

		level := slog.LevelInfo

		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int64("latency_ms", latency.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		reqLogger.LogAttrs(c.Request.Context(), level, "request completed", attrs...)
	}
}
