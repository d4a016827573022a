package worker

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/qfilter/internal/cache"
)

// DefaultClientIdle is how long a client's limiter is kept without requests
const DefaultClientIdle = 10 * time.Minute

// Limiter implements per-client rate limiting. Limiters of clients idle for
// longer than the idle timeout are evicted, so a client coming back starts
// with a full burst.
type Limiter struct {
	limiters     *cache.MemoryCache
	idle         time.Duration
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. A non-positive rate disables
// limiting.
func NewLimiter(requestsPerSecond float64, burst int, idle time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	if idle <= 0 {
		idle = DefaultClientIdle
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     cache.NewMemoryCache(idle, idle),
		idle:         idle,
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Allow checks if a request is allowed without waiting
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// Clients returns the number of clients currently tracked
func (l *Limiter) Clients() int {
	return l.limiters.Len()
}

// getLimiter returns the rate limiter for a client, refreshing its idle
// deadline
func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.lookup(key)
	if !ok {
		limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	}
	_ = l.limiters.Set(key, limiter, l.idle)
	return limiter
}

func (l *Limiter) lookup(key string) (*rate.Limiter, bool) {
	v, ok := l.limiters.Get(key)
	if !ok {
		return nil, false
	}
	limiter, ok := v.(*rate.Limiter)
	return limiter, ok
}

// ClientKey derives a limiter key from a remote address, dropping the port
func ClientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
