package clients

import (
	"errors"
	"sync"
	"time"

	"github.com/jsamuelsen/quoteboard/internal/platform/config"
)

// ErrCircuitOpen is returned without contacting the store while the breaker
// refuses calls.
var ErrCircuitOpen = errors.New("circuit breaker open")

// State is the position of a Breaker.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota

	// StateOpen refuses every call until the cool-down has passed.
	StateOpen

	// StateHalfOpen lets a limited number of probe calls through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerStatus is a point-in-time view of a Breaker.
type BreakerStatus struct {
	State State

	// Failures is the current run of consecutive failures while closed.
	Failures int

	// RetryIn is how long an open breaker keeps refusing calls. Zero unless open.
	RetryIn time.Duration
}

// Breaker stops calling a store that keeps failing.
//
// It opens after MaxFailures consecutive failures and refuses calls for
// Timeout. The first call after that becomes a probe and the breaker is
// half-open: up to HalfOpenLimit probes may be in flight, HalfOpenLimit
// successes close it, and a single failure reopens it.
type Breaker struct {
	mu  sync.Mutex
	cfg config.CircuitBreakerConfig
	now func() time.Time

	state    State
	streak   int // failures while closed, successes while half-open
	inFlight int // probes while half-open
	openedAt time.Time

	listeners []func(from, to State)
}

// NewBreaker creates a closed breaker.
func NewBreaker(cfg config.CircuitBreakerConfig) *Breaker {
	return &Breaker{cfg: cfg, now: time.Now}
}

// Notify registers fn to run after every state change. Listeners run on the
// goroutine that caused the change, outside the breaker's lock.
func (b *Breaker) Notify(fn func(from, to State)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = append(b.listeners, fn)
}

// Acquire reserves a call. It returns ErrCircuitOpen while the breaker is
// open, or half-open with every probe slot taken. A nil error must be
// followed by exactly one Succeeded or Failed.
func (b *Breaker) Acquire() error {
	return b.update(func() error {
		switch b.state {
		case StateOpen:
			if b.now().Sub(b.openedAt) < b.cfg.Timeout {
				return ErrCircuitOpen
			}

			b.moveTo(StateHalfOpen)
			b.inFlight = 1

			return nil
		case StateHalfOpen:
			if b.inFlight >= b.cfg.HalfOpenLimit {
				return ErrCircuitOpen
			}

			b.inFlight++

			return nil
		default:
			return nil
		}
	})
}

// Succeeded records that an acquired call reached the store.
func (b *Breaker) Succeeded() {
	_ = b.update(func() error {
		switch b.state {
		case StateClosed:
			b.streak = 0
		case StateHalfOpen:
			b.inFlight--
			b.streak++

			if b.streak >= b.cfg.HalfOpenLimit {
				b.moveTo(StateClosed)
			}
		}

		return nil
	})
}

// Failed records that an acquired call could not reach the store.
func (b *Breaker) Failed() {
	_ = b.update(func() error {
		switch b.state {
		case StateClosed:
			b.streak++

			if b.streak >= b.cfg.MaxFailures {
				b.moveTo(StateOpen)
			}
		case StateHalfOpen:
			b.inFlight--
			b.moveTo(StateOpen)
		}

		return nil
	})
}

// Status reports the breaker's current state.
func (b *Breaker) Status() BreakerStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	status := BreakerStatus{State: b.state}

	switch b.state {
	case StateClosed:
		status.Failures = b.streak
	case StateOpen:
		if remaining := b.cfg.Timeout - b.now().Sub(b.openedAt); remaining > 0 {
			status.RetryIn = remaining
		}
	}

	return status
}

// update runs fn under the lock and then tells listeners about any state
// change fn made.
func (b *Breaker) update(fn func() error) error {
	b.mu.Lock()
	from := b.state
	err := fn()
	to := b.state
	listeners := b.listeners
	b.mu.Unlock()

	if from != to {
		for _, l := range listeners {
			l(from, to)
		}
	}

	return err
}

// moveTo switches state and restarts the counters. Callers hold the lock.
func (b *Breaker) moveTo(s State) {
	b.state = s
	b.streak = 0

	if s == StateOpen {
		b.openedAt = b.now()
	}
}
