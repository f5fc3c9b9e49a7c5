package signal

import (
	"sync"
	"time"

	"github.com/dkeye/Battleship/internal/domain"
)

// RateLimiter is a sliding-window limit on game actions per connection.
// A non-positive limit disables it.
type RateLimiter struct {
	mu       sync.Mutex
	history  map[domain.ConnID][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		history:  make(map[domain.ConnID][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(sid domain.ConnID) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[sid]
	fresh := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}
	if len(fresh) >= rl.limit {
		rl.history[sid] = fresh
		return false
	}
	rl.history[sid] = append(fresh, now)
	return true
}

func (rl *RateLimiter) Forget(sid domain.ConnID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.history, sid)
}
