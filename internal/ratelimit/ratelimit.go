// Package ratelimit provides an in-memory sliding-window request limiter.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultActionLimit caps how many actions a single user may post per
	// window through the relay. The bridge ticks every 300ms, so at most
	// ~3 legitimate events arrive per second; a small multiple leaves
	// headroom without letting a runaway client flood the broadcast.
	DefaultActionLimit = 10
	DefaultWindow      = time.Second

	cleanupEvery = 5 * time.Minute
)

// Limiter tracks request timestamps per key and allows at most limit
// requests per sliding window.
type Limiter struct {
	mu          sync.Mutex
	seen        map[string][]time.Time
	limit       int
	window      time.Duration
	nextCleanup time.Time
}

// New returns a Limiter allowing limit requests per window for each key.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		seen:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.After(l.nextCleanup) {
		l.cleanup(now)
		l.nextCleanup = now.Add(cleanupEvery)
	}

	cutoff := now.Add(-l.window)
	recent := l.seen[key][:0]
	for _, ts := range l.seen[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.limit {
		l.seen[key] = recent
		return false
	}

	l.seen[key] = append(recent, now)
	return true
}

// Reset drops all recorded requests.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = make(map[string][]time.Time)
}

// cleanup drops keys whose requests are all far outside the window, keeping
// the map from growing with one-off keys. Caller must hold l.mu.
func (l *Limiter) cleanup(now time.Time) {
	cutoff := now.Add(-10 * l.window)
	for key, requests := range l.seen {
		stale := true
		for _, ts := range requests {
			if ts.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.seen, key)
		}
	}
}
