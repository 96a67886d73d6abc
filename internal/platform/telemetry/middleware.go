package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	scope = "github.com/jsamuelsen/quoteboard/internal/platform/telemetry"

	// HeaderTraceID echoes the server span's trace id to the browser.
	HeaderTraceID = "X-Trace-ID"
)

// Tracing starts a server span per board request. Probes and scrapes are
// not traced.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		return !operational(r.URL.Path)
	}))
}

// boardMetrics are the server-side board request instruments.
type boardMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newBoardMetrics(meter metric.Meter) (*boardMetrics, error) {
	var (
		m   boardMetrics
		err error
	)

	m.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Board request latency"), metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.requests, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Board requests served"))
	if err != nil {
		return nil, err
	}

	m.inFlight, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Board requests in progress"))
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// Metrics records latency, totals and in-flight board requests against the
// global meter, and sets X-Trace-ID when Tracing ran first. Instrument
// errors go to otel.Handle and leave the request path untouched.
func Metrics() gin.HandlerFunc {
	m, err := newBoardMetrics(otel.Meter(scope))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		if operational(c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		route := attribute.String("http.route", c.FullPath())
		method := attribute.String("http.method", c.Request.Method)
		started := time.Now()

		if m != nil {
			m.inFlight.Add(ctx, 1, metric.WithAttributes(method, route))
			defer m.inFlight.Add(ctx, -1, metric.WithAttributes(method, route))
		}

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		c.Next()

		if m == nil {
			return
		}

		done := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
		m.duration.Record(ctx, time.Since(started).Seconds(), done)
		m.requests.Add(ctx, 1, done)
	}
}

// operational reports paths under /-/ (probes, build info and scrapes).
func operational(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
