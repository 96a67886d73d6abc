package acl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jsamuelsen/quoteboard/internal/adapters/clients"
	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

const (
	quotesPath = "/quotes"
	likesPath  = "/likes"
)

// QuoteStoreConfig contains configuration for the quote store adapter.
type QuoteStoreConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should point at the json-server root.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteStore implements ports.QuoteStore and ports.HealthChecker against a
// json-server style REST backend.
type QuoteStore struct {
	client *clients.Client
	logger *slog.Logger
}

// NewQuoteStore creates a new quote store adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteStore(cfg QuoteStoreConfig) *QuoteStore {
	if cfg.Client == nil {
		panic("QuoteStore: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteStore{
		client: cfg.Client,
		logger: logger.With(slog.String("component", "acl.QuoteStore")),
	}
}

// call describes one store request.
type call struct {
	method    string
	path      string
	body      any
	operation string
	entityID  string
}

// do sends c and returns the body of a 2xx answer, which the caller must
// close. Every failure comes back as a domain error.
func (s *QuoteStore) do(ctx context.Context, c call) (io.ReadCloser, error) {
	resp, err := s.client.Send(ctx, c.method, c.path, c.body)
	if err != nil {
		return nil, MapHTTPError(nil, err, s.client.Name(), c.operation, c.entityID)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, s.client.Name(), c.operation, c.entityID)
	}

	return resp.Body, nil
}

// quoteRecord is the store's representation of a quote. Never exposed
// outside the ACL.
type quoteRecord struct {
	ID     storeID      `json:"id"`
	Quote  string       `json:"quote"`
	Author string       `json:"author"`
	Likes  []likeRecord `json:"likes,omitempty"`
}

// likeRecord is the store's representation of a like.
type likeRecord struct {
	ID        storeID `json:"id,omitempty"`
	QuoteID   storeID `json:"quoteId"`
	CreatedAt int64   `json:"createdAt"`
}

// quoteBody is the payload for creating and patching quotes.
type quoteBody struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// listPath builds the list URL for the given sort mode.
func listPath(sort domain.SortMode) string {
	if sort.ByAuthor() {
		return quotesPath + "?_sort=author&_embed=likes"
	}

	return quotesPath + "?_embed=likes"
}

// ListQuotes fetches every quote with its likes embedded.
// Implements ports.QuoteStore.
func (s *QuoteStore) ListQuotes(ctx context.Context, sort domain.SortMode) ([]domain.Quote, error) {
	path := listPath(sort)
	s.logger.DebugContext(ctx, "listing quotes", slog.String("sort", sort.String()))

	body, err := s.do(ctx, call{method: http.MethodGet, path: path, operation: "list quotes"})
	if err != nil {
		return nil, err
	}

	records, err := DecodeResponse[[]quoteRecord](body)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	quotes, err := TranslateSlice(*records, translateQuote)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	s.logger.Log(ctx, logging.LevelTrace, "translated quotes", slog.Int("count", len(quotes)))

	return quotes, nil
}

// CreateQuote stores a new quote.
// Implements ports.QuoteStore.
func (s *QuoteStore) CreateQuote(ctx context.Context, draft domain.QuoteDraft) (*domain.Quote, error) {
	s.logger.DebugContext(ctx, "creating quote", slog.String("author", draft.Author))

	body, err := s.do(ctx, call{
		method:    http.MethodPost,
		path:      quotesPath,
		body:      quoteBody{Quote: draft.Content, Author: draft.Author},
		operation: "create quote",
	})
	if err != nil {
		return nil, err
	}

	return s.decodeQuote(body, "create quote")
}

// UpdateQuote patches the text and author of a quote.
// Implements ports.QuoteStore.
func (s *QuoteStore) UpdateQuote(ctx context.Context, id string, draft domain.QuoteDraft) (*domain.Quote, error) {
	s.logger.DebugContext(ctx, "updating quote", slog.String("quote_id", id))

	body, err := s.do(ctx, call{
		method:    http.MethodPatch,
		path:      quotePath(id),
		body:      quoteBody{Quote: draft.Content, Author: draft.Author},
		operation: "update quote",
		entityID:  id,
	})
	if err != nil {
		return nil, err
	}

	return s.decodeQuote(body, "update quote")
}

// DeleteQuote removes a quote. The response body is ignored.
// Implements ports.QuoteStore.
func (s *QuoteStore) DeleteQuote(ctx context.Context, id string) error {
	s.logger.DebugContext(ctx, "deleting quote", slog.String("quote_id", id))

	body, err := s.do(ctx, call{
		method:    http.MethodDelete,
		path:      quotePath(id),
		operation: "delete quote",
		entityID:  id,
	})
	if err != nil {
		return err
	}

	discard(body)

	return nil
}

// CreateLike records a like. createdAt is sent as Unix seconds.
// Implements ports.QuoteStore.
func (s *QuoteStore) CreateLike(ctx context.Context, quoteID string, createdAt time.Time) (*domain.Like, error) {
	s.logger.DebugContext(ctx, "liking quote", slog.String("quote_id", quoteID))

	body, err := s.do(ctx, call{
		method:    http.MethodPost,
		path:      likesPath,
		body:      likeRecord{QuoteID: storeID(quoteID), CreatedAt: createdAt.Unix()},
		operation: "create like",
		entityID:  quoteID,
	})
	if err != nil {
		return nil, err
	}

	record, err := DecodeResponse[likeRecord](body)
	if err != nil {
		return nil, fmt.Errorf("create like: %w", err)
	}

	like, err := translateLike(record)
	if err != nil {
		return nil, fmt.Errorf("create like: %w", err)
	}

	return &like, nil
}

// Name returns the health check name for this store.
// Implements ports.HealthChecker.
func (s *QuoteStore) Name() string {
	return s.client.Name()
}

// Check lists a single quote to verify the store answers.
// Implements ports.HealthChecker.
func (s *QuoteStore) Check(ctx context.Context) error {
	if status := s.client.Breaker().Status(); status.State == clients.StateOpen {
		return fmt.Errorf("circuit breaker open, next probe in %s", status.RetryIn.Round(time.Second))
	}

	body, err := s.do(ctx, call{method: http.MethodGet, path: quotesPath + "?_limit=1", operation: "health check"})
	if err != nil {
		return err
	}

	discard(body)

	return nil
}

func (s *QuoteStore) decodeQuote(body io.ReadCloser, operation string) (*domain.Quote, error) {
	record, err := DecodeResponse[quoteRecord](body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	quote, err := translateQuote(record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	return &quote, nil
}

func quotePath(id string) string {
	return quotesPath + "/" + url.PathEscape(id)
}

// translateQuote converts a store record to a domain Quote.
func translateQuote(rec *quoteRecord) (domain.Quote, error) {
	if err := requireID(rec.ID, "quote"); err != nil {
		return domain.Quote{}, err
	}

	likes, err := TranslateSlice(rec.Likes, translateLike)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(likes) == 0 {
		likes = nil
	}

	return domain.Quote{
		ID:      string(rec.ID),
		Content: rec.Quote,
		Author:  rec.Author,
		Likes:   likes,
	}, nil
}

// translateLike converts a store record to a domain Like.
func translateLike(rec *likeRecord) (domain.Like, error) {
	if err := requireID(rec.ID, "like"); err != nil {
		return domain.Like{}, err
	}

	return domain.Like{
		ID:        string(rec.ID),
		QuoteID:   string(rec.QuoteID),
		CreatedAt: time.Unix(rec.CreatedAt, 0).UTC(),
	}, nil
}
