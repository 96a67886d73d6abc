package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"

	"github.com/jsamuelsen/quoteboard/internal/adapters/clients"
	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// errorBodyLimit caps how much of an error body is read for context.
const errorBodyLimit = 4 << 10

// ErrorResponse represents an error body returned by the store.
// json-server answers most failures with an empty object; other REST
// backends use either a nested (error.message) or flat (message) shape.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail contains nested error information.
type ErrorDetail struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// UnmarshalJSON accepts "error" as either an object or a plain string.
func (d *ErrorDetail) UnmarshalJSON(data []byte) error {
	var msg string
	if err := json.Unmarshal(data, &msg); err == nil {
		d.Message = msg
		return nil
	}

	type plain ErrorDetail

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*d = ErrorDetail(p)

	return nil
}

// GetMessage returns the error message from either nested or top-level format.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty or carries no message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, errorBodyLimit)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetMessage() == "" && len(errResp.Error.Details) == 0 {
		return nil
	}

	return &errResp
}

// MapHTTPError maps a failed store call to a domain error.
//
// Parameters:
//   - resp: The HTTP response (nil for transport errors)
//   - clientErr: Any error from the HTTP client (may be nil)
//   - serviceName: Name of the store for error context
//   - operation: The operation being performed (e.g., "delete quote")
//   - entityID: The quote being operated on (used for NotFoundError)
//
// Unreachable stores and 5xx answers are Unavailable, 404 is NotFound,
// 400/422 is Validation, and any other non-2xx answer is Rejected with its
// status code.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation, entityID string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var errResp *ErrorResponse
	if resp.Body != nil {
		errResp = ParseErrorResponse(resp.Body)
	}

	return mapStatusCode(resp.StatusCode, errResp, serviceName, operation, entityID)
}

// mapClientError translates transport failures. A request that ran out of
// time or was abandoned keeps its context error so callers can tell a
// deadline from an outage.
func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", operation, err)

	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// mapStatusCode translates HTTP status codes to domain errors.
func mapStatusCode(status int, errResp *ErrorResponse, serviceName, operation, entityID string) error {
	switch {
	case status == http.StatusNotFound:
		return domain.NewNotFoundError("quote", entityID)

	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		if errResp != nil {
			// First field in key order, so one body always maps the same way.
			if fields := slices.Sorted(maps.Keys(errResp.Error.Details)); len(fields) > 0 {
				return domain.NewValidationError(fields[0], errResp.Error.Details[fields[0]])
			}

			if msg := errResp.GetMessage(); msg != "" {
				return domain.NewValidationError("", msg)
			}
		}

		return domain.NewValidationError("", fmt.Sprintf("%s rejected as invalid", operation))

	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(serviceName, fmt.Sprintf("%s failed with status %d", operation, status))

	default:
		return domain.NewRejectedError(operation, status)
	}
}
