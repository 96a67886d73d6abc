package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	httpadapter "github.com/jsamuelsen/quoteboard/internal/adapters/http"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quoteboard/internal/app"
	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

const sessionCookie = "bench_session"

// memStore is an in-memory ports.QuoteStore so benchmarks measure the
// board rather than the network.
type memStore struct {
	mu     sync.Mutex
	quotes []domain.Quote
}

var _ ports.QuoteStore = (*memStore)(nil)

func newMemStore(n int) *memStore {
	s := &memStore{}
	for i := range n {
		s.quotes = append(s.quotes, domain.Quote{
			ID:      strconv.Itoa(i + 1),
			Content: fmt.Sprintf("Quote number %d", i+1),
			Author:  fmt.Sprintf("Author %d", n-i),
		})
	}

	return s
}

func (s *memStore) ListQuotes(context.Context, domain.SortMode) ([]domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.Quote(nil), s.quotes...), nil
}

func (s *memStore) CreateQuote(_ context.Context, d domain.QuoteDraft) (*domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := domain.Quote{ID: strconv.Itoa(len(s.quotes) + 1), Content: d.Content, Author: d.Author}
	s.quotes = append(s.quotes, q)

	return &q, nil
}

func (s *memStore) UpdateQuote(_ context.Context, id string, d domain.QuoteDraft) (*domain.Quote, error) {
	return &domain.Quote{ID: id, Content: d.Content, Author: d.Author}, nil
}

func (s *memStore) DeleteQuote(context.Context, string) error {
	return nil
}

func (s *memStore) CreateLike(_ context.Context, id string, at time.Time) (*domain.Like, error) {
	return &domain.Like{ID: "1", QuoteID: id, CreatedAt: at}, nil
}

func (s *memStore) Name() string { return "memory" }

func (s *memStore) Check(context.Context) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newRouter wires the full middleware chain around a store of n quotes.
func newRouter(n int) *gin.Engine {
	logger := discardLogger()
	store := newMemStore(n)

	sessions := app.NewSessionRegistry(app.SessionRegistryConfig{
		NewSynchronizer: func() *app.Synchronizer {
			return app.NewSynchronizer(app.SynchronizerConfig{Store: store, Logger: logger})
		},
		Logger: logger,
	})

	registry := ports.NewHealthRegistry(time.Second)
	_ = registry.Register(store)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:        logger,
		AppConfig:     &config.AppConfig{Name: "quoteboard", Environment: "test", Version: "bench"},
		HealthHandler: handlers.NewHealthHandler(registry, handlers.BuildInfo{}, nil),
		BoardHandler:  handlers.NewBoardHandler(sessions),
		Session:       middleware.SessionConfig{CookieName: sessionCookie, TTL: time.Minute},
		Timeout:       httpadapter.DefaultRequestTimeout,
	})

	return engine
}

func withSession(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: "8f14e45f-ceea-467a-9575-000000000001"})
	return r
}

// BenchmarkBuildBoard measures deriving the view model from a fetched list.
func BenchmarkBuildBoard(b *testing.B) {
	quotes, _ := newMemStore(100).ListQuotes(context.Background(), domain.SortDefault)
	state := app.ViewState{Editing: map[string]domain.QuoteDraft{"50": {Content: "x", Author: "y"}}}

	b.ReportAllocs()

	for b.Loop() {
		_ = app.BuildBoard(quotes, state)
	}
}

// BenchmarkBoardPage measures GET / through every middleware and the
// template for boards of growing size.
func BenchmarkBoardPage(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			router := newRouter(n)

			b.ReportAllocs()

			for b.Loop() {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/", http.NoBody)))
			}
		})
	}
}

// BenchmarkLikeAPI measures a write followed by the full re-fetch.
func BenchmarkLikeAPI(b *testing.B) {
	router := newRouter(100)

	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/quotes/1/likes", http.NoBody)))
	}
}

// BenchmarkReadiness measures /-/ready with the store check registered.
func BenchmarkReadiness(b *testing.B) {
	router := newRouter(1)

	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody))
	}
}
