//go:generate go run go.uber.org/mock/mockgen -source=limiter.go -destination=../mocks/mock_limiter.go -package=mocks

// Package ratelimit provides per-identity sliding-window admission control.
// State is process-local and rebuilt from scratch on restart.
package ratelimit

import (
	"chat-relay/clock"
	"math"
	"sync"
	"time"
)

const (
	DefaultLimit  = 30
	DefaultWindow = 60 * time.Second
)

// Result is the outcome of one admission check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter int // seconds, only set when rejected
	Limit      int
}

type ILimiter interface {
	CheckLimit(identity string) Result
}

// Limiter keeps, per identity, the admission timestamps observed in the trailing window.
// The read-check-append sequence is serialized per identity; distinct identities
// only share the short map lookup.
type Limiter struct {
	mu      sync.RWMutex
	windows map[string]*window
	limit   int
	window  time.Duration
	clock   clock.Clock
}

type window struct {
	mu      sync.Mutex
	stamps  []time.Time
	evicted bool
}

func NewLimiter(limit int, windowSize time.Duration, clock clock.Clock) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if windowSize <= 0 {
		windowSize = DefaultWindow
	}
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		window:  windowSize,
		clock:   clock,
	}
}

// CheckLimit admits or rejects one event for identity.
func (l *Limiter) CheckLimit(identity string) Result {
	for {
		w := l.windowFor(identity)
		w.mu.Lock()
		if w.evicted {
			// Swept between lookup and lock, take the fresh window instead.
			w.mu.Unlock()
			continue
		}
		now := l.clock.Now()
		w.prune(now.Add(-l.window))

		if len(w.stamps) >= l.limit {
			wait := w.stamps[0].Add(l.window).Sub(now)
			w.mu.Unlock()
			return Result{
				Allowed:    false,
				RetryAfter: max(1, int(math.Ceil(wait.Seconds()))),
				Limit:      l.limit,
			}
		}
		w.stamps = append(w.stamps, now)
		remaining := l.limit - len(w.stamps)
		w.mu.Unlock()
		return Result{Allowed: true, Remaining: remaining, Limit: l.limit}
	}
}

// Sweep drops identities whose window is empty and returns how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.clock.Now().Add(-l.window)
	removed := 0
	for identity, w := range l.windows {
		w.mu.Lock()
		w.prune(cutoff)
		if len(w.stamps) == 0 {
			w.evicted = true
			delete(l.windows, identity)
			removed++
		}
		w.mu.Unlock()
	}
	return removed
}

// Tracked returns the number of identities currently holding a window.
func (l *Limiter) Tracked() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.windows)
}

func (l *Limiter) Window() time.Duration {
	return l.window
}

func (l *Limiter) windowFor(identity string) *window {
	l.mu.RLock()
	w, ok := l.windows[identity]
	l.mu.RUnlock()
	if ok {
		return w
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok = l.windows[identity]; ok {
		return w
	}
	w = &window{}
	l.windows[identity] = w
	return w
}

// prune discards timestamps at or before cutoff. Stamps are appended in order,
// so the expired ones form a prefix.
func (w *window) prune(cutoff time.Time) {
	i := 0
	for i < len(w.stamps) && !w.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[i:]...)
	}
}
