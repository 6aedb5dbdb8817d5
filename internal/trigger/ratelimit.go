package trigger

import (
	"sync"
	"time"
)

// rateLimiter is a per-chat sliding window: at most limit firings per chat
// per window. It lives in process memory only and resets on restart, which
// is an accepted tradeoff since passive mode is best-effort.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	firings map[int64][]time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		firings: make(map[int64][]time.Time),
	}
}

// allow reports whether another firing fits inside the chat's window, and
// records it if so.
func (r *rateLimiter) allow(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	kept := r.firings[chatID][:0]
	for _, t := range r.firings[chatID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= r.limit {
		r.firings[chatID] = kept
		return false
	}

	r.firings[chatID] = append(kept, now)
	return true
}
