// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, so the application layer
// depends on abstractions rather than on HTTP clients.
//
// Port conventions:
//   - Context as first parameter for cancellation and deadlines
//   - Domain types in and out, never wire DTOs
//   - Errors are domain errors (ErrNotFound, ErrUnavailable, ErrRejected, ...)
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// QuoteStore is the remote store holding quotes and likes.
// Every method is a single round trip; implementations do not cache.
type QuoteStore interface {
	// ListQuotes returns all quotes with their likes embedded.
	// With domain.SortByAuthor the store orders the result by author.
	ListQuotes(ctx context.Context, sort domain.SortMode) ([]domain.Quote, error)

	// CreateQuote stores a new quote and returns it with its assigned ID.
	CreateQuote(ctx context.Context, draft domain.QuoteDraft) (*domain.Quote, error)

	// UpdateQuote replaces the text and author of an existing quote.
	// Returns domain.ErrNotFound if the quote does not exist.
	UpdateQuote(ctx context.Context, id string, draft domain.QuoteDraft) (*domain.Quote, error)

	// DeleteQuote removes a quote.
	// Returns domain.ErrNotFound if the quote does not exist.
	DeleteQuote(ctx context.Context, id string) error

	// CreateLike records a like for the quote at the given time.
	CreateLike(ctx context.Context, quoteID string, createdAt time.Time) (*domain.Like, error)
}
