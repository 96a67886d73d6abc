package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quoteboard/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorResponse_JSON(t *testing.T) {
	plain := NewErrorResponse(ErrorCodeNotFound, "quote 9 not found").WithTraceID("req-1")
	detailed := NewErrorResponseWithDetails(ErrorCodeValidation, "quote is required", map[string]string{"quote": "is required"})

	out, err := json.Marshal(plain)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"quote 9 not found"},"traceId":"req-1"}`, string(out))

	out, err = json.Marshal(detailed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":{"code":"VALIDATION_ERROR","message":"quote is required","details":{"quote":"is required"}}}`, string(out))
}

func TestHTTPStatusFromCode(t *testing.T) {
	for code, want := range map[string]int{
		ErrorCodeNotFound:    http.StatusNotFound,
		ErrorCodeValidation:  http.StatusUnprocessableEntity,
		ErrorCodeBadRequest:  http.StatusBadRequest,
		ErrorCodeUnavailable: http.StatusServiceUnavailable,
		ErrorCodeRejected:    http.StatusBadGateway,
		ErrorCodeTimeout:     http.StatusGatewayTimeout,
		ErrorCodeInternal:    http.StatusInternalServerError,
		"TEAPOT":             http.StatusInternalServerError,
	} {
		assert.Equal(t, want, HTTPStatusFromCode(code), code)
	}
}

func testContext(prepare func(*gin.Context)) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/board", nil)
	prepare(c)

	return c, w
}

func TestGetTraceID(t *testing.T) {
	tests := map[string]struct {
		prepare func(*gin.Context)
		want    string
	}{
		"explicit trace id wins": {func(c *gin.Context) {
			c.Set(ContextKeyTraceID, "trace-1")
			c.Set(ContextKeyRequestID, "req-1")
		}, "trace-1"},
		"request id from middleware": {func(c *gin.Context) {
			c.Set(ContextKeyRequestID, "req-1")
			c.Request.Header.Set("X-Request-ID", "hdr-1")
		}, "req-1"},
		"request header":      {func(c *gin.Context) { c.Request.Header.Set("X-Request-ID", "hdr-1") }, "hdr-1"},
		"non-string trace id": {func(c *gin.Context) { c.Set(ContextKeyTraceID, 42) }, ""},
		"nothing":             {func(*gin.Context) {}, ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c, _ := testContext(tt.prepare)
			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{domain.NewNotFoundError("quote", "123"), http.StatusNotFound, ErrorCodeNotFound, "quote"},
		{domain.NewValidationError("author", "must not be blank"), http.StatusUnprocessableEntity, ErrorCodeValidation, "author"},
		{domain.NewUnavailableError("quote-store", "connection refused"), http.StatusServiceUnavailable, ErrorCodeUnavailable, "temporarily unavailable"},
		{domain.NewRejectedError("delete quote", http.StatusConflict), http.StatusBadGateway, ErrorCodeRejected, "delete quote"},
		{fmt.Errorf("list quotes: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrorCodeTimeout, "timeout"},
		{errors.New("template missing"), http.StatusInternalServerError, ErrorCodeInternal, "internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c, w := testContext(func(c *gin.Context) { c.Set(ContextKeyRequestID, "req-"+tt.code) })

			HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.message)
			assert.Equal(t, "req-"+tt.code, resp.TraceID)
			assert.NotContains(t, resp.Error.Message, "template missing", "internal detail stays in the log")
		})
	}
}

func TestMapDomainError_ValidationDetails(t *testing.T) {
	status, resp := MapDomainError(domain.NewValidationError("quote", "must not be blank"))

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, map[string]string{"quote": "must not be blank"}, resp.Error.Details)

	status, resp = MapDomainError(nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp)
}

// TestValidator tests the singleton.
func TestValidator(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}

// TestBindFormAndValidate tests binding the create and edit forms.
func TestBindFormAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		want        QuoteForm
		errType     error
		wantFields  []string
	}{
		{
			name:        "url-encoded form",
			body:        "quote=Stay+hungry&author=Jobs",
			contentType: "application/x-www-form-urlencoded",
			want:        QuoteForm{Quote: "Stay hungry", Author: "Jobs"},
		},
		{
			name:        "json body",
			body:        `{"quote":"Stay hungry","author":"Jobs"}`,
			contentType: "application/json",
			want:        QuoteForm{Quote: "Stay hungry", Author: "Jobs"},
		},
		{
			name:        "blank but present passes binding",
			body:        "quote=+&author=Jobs",
			contentType: "application/x-www-form-urlencoded",
			want:        QuoteForm{Quote: " ", Author: "Jobs"},
		},
		{
			name:        "missing author",
			body:        "quote=Stay+hungry",
			contentType: "application/x-www-form-urlencoded",
			errType:     ErrValidation,
			wantFields:  []string{"author"},
		},
		{
			name:        "missing both",
			body:        "",
			contentType: "application/x-www-form-urlencoded",
			errType:     ErrValidation,
			wantFields:  []string{"quote", "author"},
		},
		{
			name:        "malformed json",
			body:        `{invalid}`,
			contentType: "application/json",
			errType:     ErrBinding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", tt.contentType)

			var form QuoteForm
			err := BindFormAndValidate(c, &form)

			if tt.errType == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, form)

				return
			}

			require.ErrorIs(t, err, tt.errType)

			fields := ValidationErrors(err)
			for _, f := range tt.wantFields {
				assert.Equal(t, "this field is required", fields[f])
			}
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quote":"q"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var form QuoteForm
	err := BindAndValidate(c, &form)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, ValidationErrors(err), "author")
}

func TestQuoteForm_Draft(t *testing.T) {
	d := QuoteForm{Quote: "q", Author: "a"}.Draft()
	assert.Equal(t, domain.QuoteDraft{Content: "q", Author: "a"}, d)
}

func TestValidationErrors_NonValidatorError(t *testing.T) {
	assert.Empty(t, ValidationErrors(errors.New("some error")))
}
