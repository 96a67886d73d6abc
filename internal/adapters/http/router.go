package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
	"github.com/jsamuelsen/quoteboard/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds a board request, including the store
// round-trips it makes.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger *slog.Logger

	AppConfig *config.AppConfig

	// HealthHandler serves /-/. Optional.
	HealthHandler *handlers.HealthHandler

	// BoardHandler serves the page and /api/v1. Optional.
	BoardHandler *handlers.BoardHandler

	// Session configures the board session cookie.
	Session middleware.SessionConfig

	// Timeout bounds board requests. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware, first to last:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and request metrics (skip /-/)
//  5. Logging (skips /-/)
//
// Route groups:
//   - /-/: probes, build info and metrics, no session
//   - /: the board page and its form posts
//   - /api/v1/: the same board as JSON
//
// Board routes also get the session cookie and the request timeout.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Tracing(cfg.AppConfig.Name),
		telemetry.Metrics(),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	if cfg.BoardHandler == nil {
		return
	}

	board := engine.Group("")
	board.Use(middleware.Session(cfg.Session))

	if cfg.Timeout > 0 {
		board.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	cfg.BoardHandler.RegisterPageRoutes(board)
	cfg.BoardHandler.RegisterAPIRoutes(board.Group("/api/v1"))
}

// SetupMinimalRouter sets up a router with just the health endpoints.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewDefaultRouterConfig builds a RouterConfig from the board settings.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	boardCfg *config.BoardConfig,
	healthHandler *handlers.HealthHandler,
	boardHandler *handlers.BoardHandler,
) RouterConfig {
	session := middleware.SessionConfig{CookieName: config.DefaultSessionCookie}
	if boardCfg != nil {
		if boardCfg.SessionCookie != "" {
			session.CookieName = boardCfg.SessionCookie
		}

		session.TTL = boardCfg.SessionTTL
		session.Secure = boardCfg.SecureCookie
	}

	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		BoardHandler:  boardHandler,
		Session:       session,
		Timeout:       DefaultRequestTimeout,
	}
}
