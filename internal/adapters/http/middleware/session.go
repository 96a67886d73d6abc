package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

// ContextKeySessionID is the gin context key for the board session ID.
const ContextKeySessionID = "session_id"

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	// CookieName holds the session ID.
	CookieName string

	// TTL sets the cookie lifetime. It is renewed on every request.
	TTL time.Duration

	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// Session returns middleware that assigns each browser a board session.
// The session ID is:
//   - Read from the session cookie when it holds a valid UUID
//   - Generated as a new UUID v4 otherwise
//   - Written back as an HttpOnly cookie with a renewed lifetime
//   - Stored in gin.Context and added to the context logger
func Session(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(cfg.TTL.Seconds()),
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		c.Set(ContextKeySessionID, id)
		c.Request = c.Request.WithContext(logging.WithSessionID(c.Request.Context(), id))

		c.Next()
	}
}

// GetSessionID extracts the session ID from the gin.Context.
// Returns empty string if not set.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

// SessionIDFromContext is a convenience for code holding only a
// context.Context backed by a gin.Context.
func SessionIDFromContext(ctx context.Context) string {
	if c, ok := ctx.(*gin.Context); ok {
		return GetSessionID(c)
	}

	return ""
}
