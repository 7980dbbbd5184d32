package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/aureus/pkg/logger"
	"github.com/okian/aureus/pkg/metrics"
)

// Default store settings.
const (
	defaultIdleTTL               = 30 * time.Minute
	defaultSweepInterval         = time.Minute
	defaultMetricsUpdateInterval = 5 * time.Second
)

// MemoryStore is an in-process Store. A background loop drops idle
// sessions until Close is called or the construction context ends.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]*Session

	idleTTL               time.Duration
	sweepInterval         time.Duration
	metricsUpdateInterval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	logger   logger.Logger
}

// NewMemoryStore returns a running store.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:                  make(map[string]*Session),
		idleTTL:               defaultIdleTTL,
		sweepInterval:         defaultSweepInterval,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		logger:                logger.Get().Named("view_store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.every(ctx, s.sweepInterval, func() { s.Sweep(ctx, time.Now()) })
	s.every(ctx, s.metricsUpdateInterval, s.updateMetrics)
	return s
}

// every runs fn on a ticker until the store stops.
func (s *MemoryStore) every(ctx context.Context, interval time.Duration, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// Close stops the background loops.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// IdleTTL returns the configured idle TTL.
func (s *MemoryStore) IdleTTL() time.Duration { return s.idleTTL }

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[sess.ID]; ok {
		return fmt.Errorf("%w: %s", ErrExists, sess.ID)
	}
	s.byID[sess.ID] = sess
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.byID, id)
	return nil
}

// Range implements Store. fn runs without the store lock held.
func (s *MemoryStore) Range(_ context.Context, fn func(*Session) bool) {
	s.mu.RLock()
	all := make([]*Session, 0, len(s.byID))
	for _, sess := range s.byID {
		all = append(all, sess)
	}
	s.mu.RUnlock()

	for _, sess := range all {
		if !fn(sess) {
			return
		}
	}
}

// Sweep implements Store.
func (s *MemoryStore) Sweep(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-s.idleTTL)
	s.mu.Lock()
	dropped := 0
	for id, sess := range s.byID {
		if sess.LastSeen().Before(cutoff) {
			delete(s.byID, id)
			dropped++
		}
	}
	remaining := len(s.byID)
	s.mu.Unlock()

	if dropped > 0 {
		metrics.RecordViewsExpired(dropped)
		s.logger.Debug(ctx, "idle views swept", logger.Int("dropped", dropped), logger.Int("remaining", remaining))
	}
	metrics.UpdateActiveViews(remaining)
	return dropped
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *MemoryStore) updateMetrics() {
	metrics.UpdateActiveViews(s.Count(context.Background()))
}
