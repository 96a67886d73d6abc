// Package middleware holds the gin middleware in front of the quote board:
// request and correlation ids, board sessions, panic recovery, access
// logging and request deadlines.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

const (
	// HeaderRequestID identifies one request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID identifies a chain of requests across services.
	// The quote store receives it on every call made for the request.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key for the request id.
	ContextKeyRequestID = dto.ContextKeyRequestID

	// ContextKeyCorrelationID is the gin context key for the correlation id.
	ContextKeyCorrelationID = "correlation_id"
)

// ctxKey keys ids stored in a context.Context.
type ctxKey string

// tracedID is an id that arrives in a header, is generated when missing, and
// follows the request into logs, the response and store calls.
type tracedID struct {
	header string
	key    string
	log    func(context.Context, string) context.Context
}

var (
	requestID     = tracedID{header: HeaderRequestID, key: ContextKeyRequestID, log: logging.WithRequestID}
	correlationID = tracedID{header: HeaderCorrelationID, key: ContextKeyCorrelationID, log: logging.WithCorrelationID}
)

func (t tracedID) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(t.header)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(t.key, id)
		c.Header(t.header, id)
		c.Request = c.Request.WithContext(t.log(t.store(c.Request.Context(), id), id))

		c.Next()
	}
}

func (t tracedID) store(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey(t.key), id)
}

func (t tracedID) load(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(ctxKey(t.key)).(string)

	return id
}

// RequestID reads X-Request-ID or generates a UUID, echoes it in the
// response and attaches it to the request's logger and context.
func RequestID() gin.HandlerFunc {
	return requestID.handler()
}

// CorrelationID does for X-Correlation-ID what RequestID does for
// X-Request-ID.
func CorrelationID() gin.HandlerFunc {
	return correlationID.handler()
}

// GetRequestID returns the request id set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation id set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

// RequestIDFromContext returns the request id carried by ctx, or "".
// The store client uses it to forward the id downstream.
func RequestIDFromContext(ctx context.Context) string {
	return requestID.load(ctx)
}

// CorrelationIDFromContext returns the correlation id carried by ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return correlationID.load(ctx)
}

// ContextWithRequestID returns ctx carrying the request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return requestID.store(ctx, id)
}

// ContextWithCorrelationID returns ctx carrying the correlation id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return correlationID.store(ctx, id)
}
