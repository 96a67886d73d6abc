package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

// apiPrefix marks routes that answer with the JSON error envelope.
const apiPrefix = "/api/"

// Recovery turns a panic into a 500 and logs it with its stack. JSON
// routes get the standard error envelope; the board page gets a short plain
// text body, since its template may be what panicked. Nothing is written if
// the handler already started the response.
//
// logger is used when the request carries no logger of its own.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			traceID := dto.GetTraceID(c)

			reqLogger, ok := logging.LoggerFrom(c.Request.Context())
			if !ok {
				reqLogger = logger
			}

			reqLogger.Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("trace_id", traceID),
			)

			switch {
			case c.Writer.Written():
				c.Abort()
			case strings.HasPrefix(c.Request.URL.Path, apiPrefix):
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred").WithTraceID(traceID))
			default:
				c.Abort()
				c.String(http.StatusInternalServerError, "The quote board hit an internal error (trace %s). Reload to try again.\n", traceID)
			}
		}()

		c.Next()
	}
}
