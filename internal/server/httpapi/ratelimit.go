package httpapi

import (
	"math"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter is a per-key token bucket: max attempts in a burst, refilled
// at max per window.
type keyedLimiter struct {
	mu       sync.Mutex
	every    rate.Limit
	burst    int
	idle     time.Duration
	clients  map[string]*clientLimiter
	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

func newKeyedLimiter(max int, window time.Duration) *keyedLimiter {
	l := &keyedLimiter{
		every:   rate.Every(window / time.Duration(max)),
		burst:   max,
		idle:    window,
		clients: make(map[string]*clientLimiter),
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}
	go l.cleanupLoop()
	return l
}

// Allow takes one token for key. When none is left it returns false and the
// time until the next token.
func (l *keyedLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()

	c := l.clients[key]
	if c == nil {
		c = &clientLimiter{limiter: rate.NewLimiter(l.every, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	r := c.limiter.ReserveN(now, 1)
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

func (l *keyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

// cleanup drops clients idle for a full window; their buckets are full again.
func (l *keyedLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idle {
			delete(l.clients, key)
		}
	}
}

func (l *keyedLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func retryAfterSeconds(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}
