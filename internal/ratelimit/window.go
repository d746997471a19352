// Package ratelimit implements the sliding-window admission gate in front of
// the public search endpoint.
//
// The window is shared by every caller of the process. Per-client fairness is
// not provided; that is acceptable for a single-tenant deployment.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 5
	DefaultWindow = 60 * time.Second
)

// Window admits at most limit calls within any trailing window duration.
type Window struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	admitted []time.Time
	now      func() time.Time
}

type Option func(*Window)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Window) {
		w.now = now
	}
}

func NewWindow(limit int, window time.Duration, opts ...Option) *Window {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	w := &Window{
		limit:    limit,
		window:   window,
		admitted: make([]time.Time, 0, limit),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// TryAdmit purges timestamps older than the window and admits the call if
// fewer than limit remain. A rejected call does not mutate the window.
func (w *Window) TryAdmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.purge(now)
	if len(w.admitted) >= w.limit {
		return false
	}
	w.admitted = append(w.admitted, now)
	return true
}

// RetryAfter reports how long until the oldest admission leaves the window.
// It is zero when a call would be admitted right now.
func (w *Window) RetryAfter() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.purge(now)
	if len(w.admitted) < w.limit {
		return 0
	}
	return w.admitted[0].Add(w.window).Sub(now)
}

// Remaining is the number of admissions still available in the current window.
func (w *Window) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.purge(w.now())
	return w.limit - len(w.admitted)
}

func (w *Window) Limit() int {
	return w.limit
}

func (w *Window) purge(now time.Time) {
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(w.admitted) && !w.admitted[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.admitted = append(w.admitted[:0], w.admitted[i:]...)
	}
}
