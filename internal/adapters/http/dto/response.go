package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

const (
	// ContextKeyTraceID is the gin context key checked first by GetTraceID.
	ContextKeyTraceID = "trace_id"

	// ContextKeyRequestID is the gin context key the request id middleware
	// fills.
	ContextKeyRequestID = "request_id"
)

// GetTraceID returns an identifier for correlating an error response with
// logs: an explicit trace ID, the active span's trace ID, or the request ID.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		id, _ := v.(string)
		return id
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	if id := c.GetString(ContextKeyRequestID); id != "" {
		return id
	}

	return c.GetHeader("X-Request-ID")
}

// MapDomainError maps an error from a board action to a status code and
// error envelope. Unknown errors become 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var resp *ErrorResponse

	switch {
	case domain.IsNotFound(err):
		resp = NewErrorResponse(ErrorCodeNotFound, err.Error())
	case domain.IsValidation(err):
		resp = NewErrorResponse(ErrorCodeValidation, err.Error())

		var verr *domain.ValidationError
		if errors.As(err, &verr) && verr.Field != "" {
			resp.Error.Details = map[string]string{verr.Field: verr.Message}
		}
	case domain.IsUnavailable(err):
		resp = NewErrorResponse(ErrorCodeUnavailable, "quote store temporarily unavailable")
	case domain.IsRejected(err):
		resp = NewErrorResponse(ErrorCodeRejected, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		resp = NewErrorResponse(ErrorCodeTimeout, "request timeout exceeded")
	default:
		resp = NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}

	return HTTPStatusFromCode(resp.Error.Code), resp
}

// HandleError writes the JSON error envelope for err. Internal errors are
// logged with full detail since the response hides them.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			slog.Any("error", err),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.JSON(status, resp)
}
