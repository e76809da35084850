package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker trips after a run of consecutive failures, rejects calls
// while open, and recovers through a bounded half-open probe phase.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold   int
	openTimeout time.Duration
	probeLimit  int

	state       CircuitState
	failures    int
	openedAt    time.Time
	probeActive int
	probePassed int
	now         func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	b := &CircuitBreaker{
		threshold:   failureThreshold,
		openTimeout: openTimeout,
		probeLimit:  halfOpenMaxReq,
		state:       CircuitStateClosed,
		now:         time.Now,
	}
	if b.threshold < 1 {
		b.threshold = 1
	}
	if b.openTimeout <= 0 {
		b.openTimeout = 15 * time.Second
	}
	if b.probeLimit < 1 {
		b.probeLimit = 1
	}
	return b
}

// Allow reports whether a call may proceed. An expired open period moves
// the breaker to half-open and admits up to the probe limit.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.openTimeout {
			return ErrCircuitOpen
		}
		b.enterHalfOpen()
	}

	if b.state == CircuitStateHalfOpen {
		if b.probeActive >= b.probeLimit {
			return ErrCircuitOpen
		}
		b.probeActive++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.settleProbe()
		b.probePassed++
		if b.probePassed >= b.probeLimit && b.probeActive == 0 {
			b.state = CircuitStateClosed
			b.failures = 0
			b.probePassed = 0
			b.openedAt = time.Time{}
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.threshold {
			b.trip()
		}
	case CircuitStateHalfOpen:
		b.settleProbe()
		b.trip()
	case CircuitStateOpen:
		// Failures while open push the recovery point forward.
		b.openedAt = b.now()
	}
}

// State reports the effective state; an open breaker whose timeout has
// elapsed reads as half-open even before the next Allow.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) trip() {
	b.state = CircuitStateOpen
	b.openedAt = b.now()
	b.probeActive = 0
	b.probePassed = 0
}

func (b *CircuitBreaker) enterHalfOpen() {
	b.state = CircuitStateHalfOpen
	b.probeActive = 0
	b.probePassed = 0
}

func (b *CircuitBreaker) settleProbe() {
	if b.probeActive > 0 {
		b.probeActive--
	}
}
