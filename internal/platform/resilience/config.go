package resilience

import "time"

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// NormalizeCircuitBreakerConfig fills out-of-range fields from the defaults.
// A threshold of 1 is valid and kept as-is.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	fallback := DefaultCircuitBreakerConfig()
	out := cfg
	if out.FailureThreshold < 1 {
		out.FailureThreshold = fallback.FailureThreshold
	}
	if out.OpenTimeout <= 0 {
		out.OpenTimeout = fallback.OpenTimeout
	}
	if out.HalfOpenMaxReq < 1 {
		out.HalfOpenMaxReq = fallback.HalfOpenMaxReq
	}
	return out
}
