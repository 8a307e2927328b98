package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	h "parishevents/internal/delivery/http/helpers"
	"parishevents/internal/domain"
)

// RateLimiter enforces a fixed-window request limit per caller key.
// Windows are tracked in memory; counts reset when the window elapses.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*rateEntry

	now func() time.Time
}

type rateEntry struct {
	count       int
	windowStart time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
}

// Take records one request for key. It returns domain.ErrRateLimited when the
// key has exhausted its window.
func (l *RateLimiter) Take(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		l.entries[key] = &rateEntry{count: 1, windowStart: now}
		return nil
	}
	if e.count >= l.limit {
		return domain.ErrRateLimited
	}
	e.count++
	return nil
}

// Limit wraps next with the rate limit keyed by the authenticated user ID.
// Unauthenticated requests fall back to the remote address. Over-limit
// requests get 429 with a Vietnamese message.
func (l *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := UserIDFromContext(r.Context())
		if !ok {
			key = r.RemoteAddr
		}
		if err := l.Take(key); errors.Is(err, domain.ErrRateLimited) {
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeTooManyRequests,
				"Thao tác quá nhanh, vui lòng thử lại sau")
			return
		}
		next(w, r)
	}
}
