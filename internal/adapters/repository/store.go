// Package repository keeps live map views in memory.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/aureus/internal/domain/mapview"
)

// Session is one stored view. All access to the view goes through Do, which
// serializes callers and marks the session as used.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	view     *mapview.View
	lastSeen atomic.Int64
}

// NewSession wraps v under id.
func NewSession(id string, v *mapview.View, now time.Time) *Session {
	s := &Session{ID: id, CreatedAt: now, view: v}
	s.lastSeen.Store(now.UnixNano())
	return s
}

// Do runs fn with exclusive access to the view.
func (s *Session) Do(fn func(v *mapview.View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen.Store(time.Now().UnixNano())
	fn(s.view)
}

// LastSeen returns the time of the last Do or Touch.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Touch marks the session as used at t.
func (s *Session) Touch(t time.Time) {
	s.lastSeen.Store(t.UnixNano())
}

// Store provides access to live sessions.
type Store interface {
	// Put adds a session. Returns ErrExists if the id is taken.
	Put(ctx context.Context, s *Session) error

	// Get returns the session for id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes the session for id.
	// Returns ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// Range calls fn for every session until fn returns false.
	Range(ctx context.Context, fn func(*Session) bool)

	// Sweep drops sessions idle since before now minus the idle TTL and
	// returns how many were dropped.
	Sweep(ctx context.Context, now time.Time) int

	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
