package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records board action outcomes. A nil *Metrics records nothing.
type Metrics struct {
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	sessions prometheus.Gauge
}

// NewMetrics registers the board metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quoteboard",
			Subsystem: "sync",
			Name:      "actions_total",
			Help:      "Board actions by action and outcome (ok or the failing step).",
		}, []string{"action", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quoteboard",
			Subsystem: "sync",
			Name:      "action_duration_seconds",
			Help:      "Wall time of board actions including the re-fetch.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "quoteboard",
			Name:      "sessions_active",
			Help:      "Board sessions currently held in memory.",
		}),
	}
}

func (m *Metrics) observe(action string, start time.Time, err error) {
	if m == nil {
		return
	}

	m.actions.WithLabelValues(action, Outcome(err)).Inc()
	m.duration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}

func (m *Metrics) setSessions(n int) {
	if m == nil {
		return
	}

	m.sessions.Set(float64(n))
}
