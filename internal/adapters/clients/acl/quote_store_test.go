package acl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quoteboard/internal/adapters/clients"
	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
	"github.com/jsamuelsen/quoteboard/internal/testutil"
)

func newTestStore(t *testing.T, baseURL string) *QuoteStore {
	t.Helper()

	client, err := clients.New(&clients.Config{
		ServiceName: "quote-store",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 3,
		},
		Transport: config.TransportConfig{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
		},
	})
	require.NoError(t, err)

	return NewQuoteStore(QuoteStoreConfig{
		Client: client,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func seed() []testutil.Quote {
	return []testutil.Quote{
		{Quote: "Simplicity is prerequisite for reliability.", Author: "Dijkstra"},
		{Quote: "Talk is cheap. Show me the code.", Author: "Torvalds"},
		{Quote: "Premature optimization is the root of all evil.", Author: "Knuth"},
	}
}

func TestNewQuoteStore_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteStore(QuoteStoreConfig{Logger: slog.Default()})
	})
}

func TestQuoteStore_ListQuotes(t *testing.T) {
	srv := testutil.NewJSONServer(t, seed()...)
	store := newTestStore(t, srv.URL)

	quotes, err := store.ListQuotes(context.Background(), domain.SortDefault)
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, "1", quotes[0].ID)
	assert.Equal(t, "Dijkstra", quotes[0].Author)
	assert.Equal(t, 0, quotes[0].LikeCount())

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/quotes", reqs[0].Path)
	assert.Equal(t, "_embed=likes", reqs[0].Query)
}

func TestQuoteStore_ListQuotes_ByAuthor(t *testing.T) {
	srv := testutil.NewJSONServer(t, seed()...)
	store := newTestStore(t, srv.URL)

	quotes, err := store.ListQuotes(context.Background(), domain.SortByAuthor)
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, []string{"Dijkstra", "Knuth", "Torvalds"},
		[]string{quotes[0].Author, quotes[1].Author, quotes[2].Author})

	assert.Equal(t, "_sort=author&_embed=likes", srv.Requests()[0].Query)
}

func TestQuoteStore_ListQuotes_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "server error", status: http.StatusInternalServerError, check: domain.IsUnavailable},
		{name: "not found", status: http.StatusNotFound, check: domain.IsNotFound},
		{name: "forbidden", status: http.StatusForbidden, check: domain.IsRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewJSONServer(t, seed()...)
			srv.FailWith("GET /quotes", tt.status)

			_, err := newTestStore(t, srv.URL).ListQuotes(context.Background(), domain.SortDefault)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}

func TestQuoteStore_ListQuotes_Unreachable(t *testing.T) {
	srv := testutil.NewJSONServer(t)
	url := srv.URL
	srv.Close()

	_, err := newTestStore(t, url).ListQuotes(context.Background(), domain.SortDefault)
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestQuoteStore_CreateQuote(t *testing.T) {
	srv := testutil.NewJSONServer(t)
	store := newTestStore(t, srv.URL)

	q, err := store.CreateQuote(context.Background(), domain.QuoteDraft{Content: "Less is more.", Author: "Mies"})
	require.NoError(t, err)
	assert.Equal(t, "1", q.ID)
	assert.Equal(t, "Less is more.", q.Content)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.JSONEq(t, `{"quote":"Less is more.","author":"Mies"}`, reqs[0].Body)
}

func TestQuoteStore_UpdateQuote(t *testing.T) {
	srv := testutil.NewJSONServer(t, seed()...)
	store := newTestStore(t, srv.URL)

	q, err := store.UpdateQuote(context.Background(), "2", domain.QuoteDraft{Content: "Show me.", Author: "Linus"})
	require.NoError(t, err)
	assert.Equal(t, "Linus", q.Author)
	assert.Equal(t, "Show me.", srv.Quotes()[1].Quote)

	reqs := srv.Requests()
	assert.Equal(t, http.MethodPatch, reqs[0].Method)
	assert.Equal(t, "/quotes/2", reqs[0].Path)
}

func TestQuoteStore_UpdateQuote_NotFound(t *testing.T) {
	srv := testutil.NewJSONServer(t)

	_, err := newTestStore(t, srv.URL).UpdateQuote(context.Background(), "99", domain.QuoteDraft{Content: "x", Author: "y"})
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestQuoteStore_DeleteQuote(t *testing.T) {
	srv := testutil.NewJSONServer(t, seed()...)
	store := newTestStore(t, srv.URL)

	require.NoError(t, store.DeleteQuote(context.Background(), "1"))
	assert.Len(t, srv.Quotes(), 2)

	err := store.DeleteQuote(context.Background(), "1")
	assert.True(t, domain.IsNotFound(err))
}

func TestQuoteStore_CreateLike(t *testing.T) {
	srv := testutil.NewJSONServer(t, seed()...)
	store := newTestStore(t, srv.URL)
	at := time.Unix(1700000000, 0)

	like, err := store.CreateLike(context.Background(), "3", at)
	require.NoError(t, err)
	assert.Equal(t, "3", like.QuoteID)
	assert.True(t, at.Equal(like.CreatedAt))

	assert.JSONEq(t, `{"quoteId":3,"createdAt":1700000000}`, srv.Requests()[0].Body)

	quotes, err := store.ListQuotes(context.Background(), domain.SortDefault)
	require.NoError(t, err)
	assert.Equal(t, 1, quotes[2].LikeCount())
}

func TestQuoteStore_CreateLike_UnknownQuote(t *testing.T) {
	srv := testutil.NewJSONServer(t)

	_, err := newTestStore(t, srv.URL).CreateLike(context.Background(), "5", time.Now())
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestQuoteStore_HealthCheck(t *testing.T) {
	srv := testutil.NewJSONServer(t, seed()...)
	store := newTestStore(t, srv.URL)

	assert.Equal(t, "quote-store", store.Name())
	require.NoError(t, store.Check(context.Background()))
	assert.Equal(t, "_limit=1", srv.Requests()[0].Query)

	srv.FailWith("GET /quotes", http.StatusServiceUnavailable)
	assert.Error(t, store.Check(context.Background()))
}

func TestQuoteStore_HealthCheckSkipsStoreWhileCircuitOpen(t *testing.T) {
	srv := testutil.NewJSONServer(t, seed()...)
	srv.FailWith("GET /quotes", http.StatusServiceUnavailable)

	client, err := clients.New(&clients.Config{
		ServiceName: "quote-store",
		BaseURL:     srv.URL,
		Retry:       config.RetryConfig{MaxAttempts: 1},
		Circuit:     config.CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Minute, HalfOpenLimit: 1},
	})
	require.NoError(t, err)

	store := NewQuoteStore(QuoteStoreConfig{Client: client})

	require.Error(t, store.Check(context.Background()))
	require.Equal(t, clients.StateOpen, client.Breaker().Status().State)

	calls := len(srv.Requests())

	err = store.Check(context.Background())
	require.ErrorContains(t, err, "circuit breaker open, next probe in 1m0s")
	assert.Len(t, srv.Requests(), calls)
}
