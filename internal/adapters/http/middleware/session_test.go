package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter(captured *string) *gin.Engine {
	router := gin.New()
	router.Use(Session(SessionConfig{CookieName: "board", TTL: 30 * time.Minute}))
	router.GET("/", func(c *gin.Context) {
		*captured = GetSessionID(c)
		c.Status(http.StatusOK)
	})

	return router
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, ck := range w.Result().Cookies() {
		if ck.Name == "board" {
			return ck
		}
	}

	t.Fatal("session cookie not set")

	return nil
}

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("issues a new session", func(t *testing.T) {
		t.Parallel()

		var id string

		w := httptest.NewRecorder()
		sessionRouter(&id).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		ck := sessionCookie(t, w)
		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, id)
		assert.Equal(t, id, ck.Value)
		assert.True(t, ck.HttpOnly)
		assert.Equal(t, 1800, ck.MaxAge)
		assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	})

	t.Run("keeps a valid session", func(t *testing.T) {
		t.Parallel()

		const existing = "550e8400-e29b-41d4-a716-446655440000"

		var id string

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "board", Value: existing})

		w := httptest.NewRecorder()
		sessionRouter(&id).ServeHTTP(w, req)

		assert.Equal(t, existing, id)
		assert.Equal(t, existing, sessionCookie(t, w).Value)
	})

	t.Run("replaces a malformed session", func(t *testing.T) {
		t.Parallel()

		var id string

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "board", Value: "not-a-uuid"})

		w := httptest.NewRecorder()
		sessionRouter(&id).ServeHTTP(w, req)

		require.NotEmpty(t, id)
		assert.NotEqual(t, "not-a-uuid", id)
	})
}

func TestSessionIDFromContext(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(ContextKeySessionID, "abc")

	assert.Equal(t, "abc", SessionIDFromContext(c))
	assert.Empty(t, SessionIDFromContext(t.Context()))
}
