// Package circuitbreaker stops calling a failing dependency for a while so
// that callers fail fast instead of waiting on timeouts. The registrar puts
// one in front of the audit journal.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the current state of the circuit breaker.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateOpen rejects calls until Cooldown has passed.
	StateOpen
	// StateHalfOpen lets one probe call through.
	StateHalfOpen
)

// String returns the string representation of the state.
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

// ErrOpen is returned without calling fn while the circuit is open
// or a half-open probe is already in flight.
var ErrOpen = errors.New("circuit breaker is open")

// Config holds circuit breaker configuration.
type Config struct {
	// Name identifies this breaker in logs.
	Name string

	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold int

	// Cooldown is how long the circuit stays open before a probe is allowed.
	Cooldown time.Duration

	// OnStateChange is called with the lock released.
	OnStateChange func(name string, from, to State)

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Counts holds totals since the breaker was created.
type Counts struct {
	Successes           int
	Failures            int
	Rejected            int
	ConsecutiveFailures int
}

// CircuitBreaker implements the circuit breaker pattern.
type CircuitBreaker struct {
	config Config

	mu       sync.Mutex
	state    State
	counts   Counts
	openedAt time.Time
	probing  bool
}

// New creates a breaker. Zero values get defaults of 3 failures and 10s.
func New(config Config) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 3
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 10 * time.Second
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &CircuitBreaker{config: config}
}

// Execute runs fn if the circuit allows it and records the result.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.before(); err != nil {
		return err
	}
	err := fn(ctx)
	cb.after(err)
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()

	switch cb.state {
	case StateOpen:
		if cb.config.Now().Sub(cb.openedAt) < cb.config.Cooldown {
			cb.counts.Rejected++
			cb.mu.Unlock()
			return ErrOpen
		}
		notify := cb.transition(StateHalfOpen)
		cb.probing = true
		cb.mu.Unlock()
		notify()
		return nil

	case StateHalfOpen:
		if cb.probing {
			cb.counts.Rejected++
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.probing = true
	}

	cb.mu.Unlock()
	return nil
}

func (cb *CircuitBreaker) after(err error) {
	cb.mu.Lock()
	notify := func() {}

	if err == nil {
		cb.counts.Successes++
		cb.counts.ConsecutiveFailures = 0
		if cb.state == StateHalfOpen {
			notify = cb.transition(StateClosed)
		}
	} else {
		cb.counts.Failures++
		cb.counts.ConsecutiveFailures++
		if cb.state == StateHalfOpen || cb.counts.ConsecutiveFailures >= cb.config.FailureThreshold {
			cb.openedAt = cb.config.Now()
			notify = cb.transition(StateOpen)
		}
	}
	cb.probing = false

	cb.mu.Unlock()
	notify()
}

// transition must be called with mu held; the returned func must be called
// after unlocking.
func (cb *CircuitBreaker) transition(to State) func() {
	from := cb.state
	if from == to {
		return func() {}
	}
	cb.state = to
	if to == StateClosed {
		cb.counts.ConsecutiveFailures = 0
	}
	if cb.config.OnStateChange == nil {
		return func() {}
	}
	return func() { cb.config.OnStateChange(cb.config.Name, from, to) }
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Counts returns the current counts.
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

// Name returns the name of the circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}
