package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key onto one
// execution. The zero value is ready to use.
type SingleFlight struct {
	mu       sync.Mutex
	inFlight map[string]*flight
}

type flight struct {
	done   chan struct{}
	result any
	err    error
}

// Do runs fn unless a call for key is already running, in which case it
// waits for that call and returns its result. The bool reports whether the
// result was shared with an earlier caller.
func (s *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	s.mu.Lock()
	if existing, ok := s.inFlight[key]; ok {
		s.mu.Unlock()
		<-existing.done
		return existing.result, existing.err, true
	}

	f := &flight{done: make(chan struct{})}
	if s.inFlight == nil {
		s.inFlight = make(map[string]*flight)
	}
	s.inFlight[key] = f
	s.mu.Unlock()

	f.result, f.err = fn()
	close(f.done)

	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()

	return f.result, f.err, false
}
