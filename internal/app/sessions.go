package app

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 30 * time.Minute

// minSweepInterval bounds how often Run sweeps, however short the TTL.
const minSweepInterval = time.Second

// SessionRegistryConfig contains dependencies for a SessionRegistry.
type SessionRegistryConfig struct {
	// NewSynchronizer builds the board for a new session. Required.
	NewSynchronizer func() *Synchronizer

	// TTL evicts sessions idle for longer. Defaults to DefaultSessionTTL.
	TTL time.Duration

	// Metrics is optional.
	Metrics *Metrics

	// Now defaults to time.Now.
	Now func() time.Time

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

type sessionEntry struct {
	sync     *Synchronizer
	lastSeen time.Time
}

// SessionRegistry holds one Synchronizer per session id. Sessions are
// created on first use and never share state.
type SessionRegistry struct {
	newSync func() *Synchronizer
	ttl     time.Duration
	metrics *Metrics
	now     func() time.Time
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewSessionRegistry creates an empty registry.
// Panics if NewSynchronizer is nil.
func NewSessionRegistry(cfg SessionRegistryConfig) *SessionRegistry {
	if cfg.NewSynchronizer == nil {
		panic("SessionRegistry: NewSynchronizer is required")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionRegistry{
		newSync:  cfg.NewSynchronizer,
		ttl:      ttl,
		metrics:  cfg.Metrics,
		now:      now,
		logger:   logger,
		sessions: make(map[string]*sessionEntry),
	}
}

// Get returns the session's Synchronizer, creating it if needed, and marks
// the session as seen.
func (r *SessionRegistry) Get(id string) *Synchronizer {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		e = &sessionEntry{sync: r.newSync()}
		r.sessions[id] = e
		r.metrics.setSessions(len(r.sessions))
		r.logger.Debug("session started", slog.String("session_id", id))
	}

	e.lastSeen = r.now()

	return e.sync
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were dropped.
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0

	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		r.metrics.setSessions(len(r.sessions))
		r.logger.Debug("sessions evicted", slog.Int("count", evicted), slog.Int("remaining", len(r.sessions)))
	}

	return evicted
}

// sweepInterval is half the TTL, but never below minSweepInterval.
func (r *SessionRegistry) sweepInterval() time.Duration {
	return max(r.ttl/2, minSweepInterval)
}

// Run sweeps every sweepInterval until ctx is done. It always returns nil so
// it can run in an errgroup beside the server.
func (r *SessionRegistry) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.sweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}
