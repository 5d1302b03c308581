package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/community-web/internal/ratelimit"
)

// rateEntry keeps the window a key was last recorded with.
type rateEntry struct {
	window     time.Duration
	timestamps []time.Time
}

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
// Keys whose own window has fully expired are dropped on the next sweep.
type RateLimitMemoryStore struct {
	mu        sync.Mutex
	requests  map[string]*rateEntry
	now       func() time.Time
	lastSweep time.Time
	sweepMin  time.Duration
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return NewRateLimitMemoryStoreWithClock(time.Now)
}

// NewRateLimitMemoryStoreWithClock creates a rate limit store reading time from now.
func NewRateLimitMemoryStoreWithClock(now func() time.Time) *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		requests: make(map[string]*rateEntry),
		now:      now,
		sweepMin: time.Minute,
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	entry, ok := s.requests[key]
	if !ok {
		entry = &rateEntry{}
		s.requests[key] = entry
	}

	entry.window = window
	entry.timestamps = append(prune(entry.timestamps, now.Add(-window)), now)

	s.sweep(now)

	return int64(len(entry.timestamps)), nil
}

// Len returns the number of tracked keys.
func (s *RateLimitMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

// sweep drops keys with no request inside their own window. It runs at most once
// per sweepMin.
func (s *RateLimitMemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.sweepMin {
		return
	}

	s.lastSweep = now

	for key, entry := range s.requests {
		last := len(entry.timestamps) - 1
		if last < 0 || !entry.timestamps[last].After(now.Add(-entry.window)) {
			delete(s.requests, key)
		}
	}
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	valid := make([]time.Time, 0, len(timestamps)+1)

	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	return valid
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitMemoryStore)(nil)
