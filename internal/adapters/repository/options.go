package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithIdleTTL sets how long a session may go unused before the sweep drops it.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

// WithSweepInterval sets how often the background sweep runs.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
