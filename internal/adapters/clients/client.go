// Package clients is the instrumented HTTP transport the quote store gateway
// is built on. It adds retries with jittered backoff, a circuit breaker,
// OpenTelemetry spans and metrics, and request/correlation id propagation.
// It knows nothing about quotes; translation happens in the acl package.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

const (
	instrumentationName = "github.com/jsamuelsen/quoteboard/internal/adapters/clients"

	defaultTimeout = 30 * time.Second

	// Connection pool fallbacks for unset config.TransportConfig fields.
	transportMaxIdleConns        = 100
	transportMaxIdleConnsPerHost = 10
	transportIdleConnTimeout     = 90 * time.Second

	// backoffJitter spreads each backoff by up to ±25%.
	backoffJitter = 0.25

	// traceBodyLimit caps how much of a response body is logged at trace level.
	traceBodyLimit = 512
)

// Outcome labels for the request metrics.
const (
	outcomeCircuitOpen = "circuit_open"
	outcomeCanceled    = "context_canceled"
	outcomeError       = "error"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the store root, e.g. "http://localhost:3000".
	BaseURL string

	// ServiceName names the store in logs, spans and errors. Required.
	ServiceName string

	// Timeout bounds each attempt. Retries and backoff can take longer in total.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client sends requests to one downstream store.
type Client struct {
	http    *http.Client
	baseURL string
	name    string
	retry   config.RetryConfig
	breaker *Breaker
	logger  *slog.Logger
	tracer  trace.Tracer

	duration metric.Float64Histogram
	requests metric.Int64Counter
}

// New creates a Client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retry := cfg.Retry
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	c := &Client{
		http:    &http.Client{Timeout: timeout, Transport: newTransport(cfg.Transport)},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		name:    cfg.ServiceName,
		retry:   retry,
		breaker: NewBreaker(cfg.Circuit),
		logger:  logger,
		tracer:  otel.Tracer(instrumentationName),
	}

	c.breaker.Notify(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	if err := c.instrument(otel.Meter(instrumentationName)); err != nil {
		return nil, err
	}

	return c, nil
}

// instrument creates the request metrics and the breaker state gauge.
func (c *Client) instrument(meter metric.Meter) error {
	var err error

	c.duration, err = meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of requests to the quote store"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating duration metric: %w", err)
	}

	c.requests, err = meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Requests sent to the quote store"),
	)
	if err != nil {
		return fmt.Errorf("creating request counter: %w", err)
	}

	_, err = meter.Int64ObservableGauge(
		"quoteboard.store.circuit.state",
		metric.WithDescription("Circuit breaker state: 0 closed, 1 open, 2 half-open"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(c.breaker.Status().State), metric.WithAttributes(attribute.String("peer.service", c.name)))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating circuit state gauge: %w", err)
	}

	return nil
}

func newTransport(cfg config.TransportConfig) *http.Transport {
	t := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	if t.MaxIdleConns <= 0 {
		t.MaxIdleConns = transportMaxIdleConns
	}

	if t.MaxIdleConnsPerHost <= 0 {
		t.MaxIdleConnsPerHost = transportMaxIdleConnsPerHost
	}

	if t.IdleConnTimeout <= 0 {
		t.IdleConnTimeout = transportIdleConnTimeout
	}

	return t
}

// Name returns the downstream service name.
func (c *Client) Name() string {
	return c.name
}

// Breaker returns the client's circuit breaker.
func (c *Client) Breaker() *Breaker {
	return c.breaker
}

// Send issues method against path, encoding payload as the JSON body.
// A nil payload sends no body.
func (c *Client) Send(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader = http.NoBody

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.Do(ctx, req)
}

// Do sends req through the breaker with retries. Any response that arrives
// is returned, whatever its status; 5xx answers are retried first. Failures
// that outlast every attempt wrap ErrMaxRetriesExceeded.
//
// Requests with a body are only replayed when req.GetBody is set, which
// http.NewRequestWithContext does for in-memory readers.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.name),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if err := c.breaker.Acquire(); err != nil {
		c.observe(ctx, req.Method, 0, start, outcomeCircuitOpen)
		logger.Warn("request blocked by circuit breaker")

		return nil, err
	}

	c.propagateIDs(ctx, req)

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", req.Method, c.name),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.name),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.attempt(ctx, req, logger)
	if err != nil {
		c.breaker.Failed()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		outcome := outcomeError
		if ctx.Err() != nil {
			outcome = outcomeCanceled
		}

		c.observe(ctx, req.Method, 0, start, outcome)
		logger.Error("request failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}

	c.breaker.Succeeded()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	c.observe(ctx, req.Method, resp.StatusCode, start, fmt.Sprintf("%dxx", resp.StatusCode/100))
	logger.Debug("request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if logger.Enabled(ctx, logging.LevelTrace) {
		traceBody(ctx, resp, logger)
	}

	return resp, nil
}

// attempt runs up to retry.MaxAttempts tries. It stops early on success, on
// a 4xx answer, on an error that is not worth repeating, or when ctx ends.
func (c *Client) attempt(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, error) {
	var lastErr error

	for n := range c.retry.MaxAttempts {
		if n > 0 {
			if err := c.pause(ctx, n, logger); err != nil {
				return nil, err
			}

			if err := rewindBody(req); err != nil {
				return nil, err
			}
		}

		logger.Log(ctx, logging.LevelTrace, "sending request", slog.Int("attempt", n+1))

		resp, err := c.http.Do(req.WithContext(ctx))

		switch {
		case err != nil && !isRetryableError(err):
			return nil, err
		case err != nil:
			logger.Debug("request failed with retryable error", slog.Int("attempt", n+1), slog.Any("error", err))
			lastErr = err
		case resp.StatusCode >= http.StatusInternalServerError:
			logger.Debug("request failed with server error", slog.Int("attempt", n+1), slog.Int("status", resp.StatusCode))
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		default:
			return resp, nil
		}
	}

	return nil, lastErr
}

// pause waits out the backoff before attempt n.
func (c *Client) pause(ctx context.Context, n int, logger *slog.Logger) error {
	wait := c.backoff(n)
	logger.Debug("retrying request", slog.Int("attempt", n+1), slog.Duration("backoff", wait))

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff grows InitialInterval by Multiplier per attempt, caps it at
// MaxInterval and spreads it by backoffJitter.
func (c *Client) backoff(n int) time.Duration {
	d := float64(c.retry.InitialInterval) * math.Pow(c.retry.Multiplier, float64(n))
	d = math.Min(d, float64(c.retry.MaxInterval))

	spread := rand.Float64()*2 - 1 //nolint:gosec // jitter needs no crypto randomness

	return time.Duration(d + d*backoffJitter*spread)
}

func rewindBody(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}

	if req.GetBody == nil {
		return errors.New("request body cannot be replayed")
	}

	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewinding request body: %w", err)
	}

	req.Body = body

	return nil
}

// propagateIDs copies the inbound request and correlation ids onto req.
func (c *Client) propagateIDs(ctx context.Context, req *http.Request) {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

// traceBody logs the head of a response body and leaves the body readable.
func traceBody(ctx context.Context, resp *http.Response, logger *slog.Logger) {
	head, err := io.ReadAll(io.LimitReader(resp.Body, traceBodyLimit))
	if err != nil {
		logger.Log(ctx, logging.LevelTrace, "reading response body for trace failed", slog.Any("error", err))
	}

	resp.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), resp.Body), resp.Body}

	logger.Log(ctx, logging.LevelTrace, "response body", slog.String("body", string(head)))
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

func (c *Client) observe(ctx context.Context, method string, status int, start time.Time, outcome string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.name),
		attribute.String("result", outcome),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	set := metric.WithAttributes(attrs...)
	c.duration.Record(ctx, time.Since(start).Seconds(), set)
	c.requests.Add(ctx, 1, set)
}

// isRetryableError reports whether a transport error is worth another
// attempt: network timeouts and connection failures are, context errors
// are not.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
