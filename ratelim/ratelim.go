package ratelim

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles authentication attempts per login email. Stale entries
// are pruned lazily on access instead of by a background timer.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New allows 5 attempts per minute with a small burst.
func New() *Limiter {
	return &Limiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / 5),
		burst:    5,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.visitors, k)
		}
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}
