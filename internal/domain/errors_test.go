package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrValidation,
		ErrUnavailable,
		ErrRejected,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		id          string
		expectedMsg string
	}{
		{
			name:        "with entity and ID",
			entity:      "quote",
			id:          "7",
			expectedMsg: `quote with id "7" not found`,
		},
		{
			name:        "with entity only",
			entity:      "like",
			expectedMsg: "like not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("author", "must not be blank")
	assert.Equal(t, "validation failed for author: must not be blank", err.Error())
	assert.True(t, IsValidation(err))

	err = NewValidationError("", "draft is empty")
	assert.Equal(t, "validation failed: draft is empty", err.Error())
}

func TestUnavailableError(t *testing.T) {
	err := NewUnavailableError("quote-store", "connection refused")
	assert.Equal(t, `service "quote-store" unavailable: connection refused`, err.Error())
	assert.True(t, IsUnavailable(err))

	err = NewUnavailableError("quote-store", "")
	assert.Equal(t, `service "quote-store" unavailable`, err.Error())
}

func TestRejectedError(t *testing.T) {
	err := NewRejectedError("create quote", 409)
	assert.Equal(t, "create quote rejected with status 409", err.Error())
	assert.True(t, IsRejected(err))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 409, rejected.StatusCode)
}

func TestIsHelpers_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("listing quotes: %w", NewNotFoundError("quote", "1"))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsUnavailable(wrapped))
	assert.False(t, IsRejected(wrapped))
	assert.False(t, IsValidation(wrapped))
}
