//go:build integration

package integration

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quoteboard/internal/adapters/clients"
	"github.com/jsamuelsen/quoteboard/internal/adapters/clients/acl"
	httpadapter "github.com/jsamuelsen/quoteboard/internal/adapters/http"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quoteboard/internal/app"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
	"github.com/jsamuelsen/quoteboard/internal/ports"
	"github.com/jsamuelsen/quoteboard/internal/testutil"
)

// stack is the board server wired to a fake json-server, with every layer
// between them real.
type stack struct {
	store   *testutil.JSONServer
	server  *httptest.Server
	metrics *prometheus.Registry
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startStack(seed ...testutil.Quote) (*stack, error) {
	gin.SetMode(gin.TestMode)

	logger := discardLogger()

	store := testutil.NewUnstartedJSONServer(seed...)
	store.Start()

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     store.URL,
		ServiceName: "quote-store",
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   100,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
		Logger: logger,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating client: %w", err)
	}

	quoteStore := acl.NewQuoteStore(acl.QuoteStoreConfig{Client: httpClient, Logger: logger})

	health := ports.NewHealthRegistry(time.Second)
	if err := health.Register(quoteStore); err != nil {
		store.Close()
		return nil, fmt.Errorf("registering health check: %w", err)
	}

	reg := prometheus.NewRegistry()
	metrics := app.NewMetrics(reg)

	sessions := app.NewSessionRegistry(app.SessionRegistryConfig{
		NewSynchronizer: func() *app.Synchronizer {
			return app.NewSynchronizer(app.SynchronizerConfig{
				Store:   quoteStore,
				Metrics: metrics,
				Logger:  logger,
			})
		},
		Metrics: metrics,
		Logger:  logger,
	})

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.NewDefaultRouterConfig(
		logger,
		&config.AppConfig{Name: "quoteboard", Version: "test", Environment: "test"},
		&config.BoardConfig{SessionCookie: config.DefaultSessionCookie, SessionTTL: time.Minute},
		handlers.NewHealthHandler(health, handlers.BuildInfo{Version: "test"}, reg),
		handlers.NewBoardHandler(sessions),
	))

	return &stack{
		store:   store,
		server:  httptest.NewServer(engine),
		metrics: reg,
	}, nil
}

func (s *stack) close() {
	s.server.Close()
	s.store.Close()
}

// newBrowser returns a client with its own cookie jar, so its own session.
func newBrowser() *http.Client {
	jar, _ := cookiejar.New(nil)

	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}
