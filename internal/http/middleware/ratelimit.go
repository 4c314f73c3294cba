package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL     = 10 * time.Minute
	limiterSweepEvery  = 5 * time.Minute
	rateLimitedMessage = "Muitas requisições, tente novamente em instantes"
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
	sweeping sync.WaitGroup
}

type ipLimiter struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// NewIPRateLimiter allows rps requests per second per IP with the given burst.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{rate: rate.Limit(rps), burst: burst, now: time.Now, done: make(chan struct{})}
}

// StartIPRateLimiter builds a limiter and starts its idle sweeper. It returns
// nil, meaning no limiting, when rps is not positive. Call Stop on shutdown.
func StartIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if rps <= 0 {
		return nil
	}
	l := NewIPRateLimiter(rps, burst)
	l.startSweeper(limiterSweepEvery)
	return l
}

// Allow reports whether a request from ip may proceed now.
func (l *IPRateLimiter) Allow(ip string) bool {
	now := l.now()
	v, ok := l.limiters.Load(ip)
	if !ok {
		v, _ = l.limiters.LoadOrStore(ip, &ipLimiter{limiter: rate.NewLimiter(l.rate, l.burst)})
	}
	entry := v.(*ipLimiter)
	entry.mu.Lock()
	entry.lastSeen = now
	entry.mu.Unlock()
	return entry.limiter.AllowN(now, 1)
}

// Sweep drops limiters idle for longer than the TTL.
func (l *IPRateLimiter) Sweep() {
	cutoff := l.now().Add(-limiterIdleTTL)
	l.limiters.Range(func(key, value any) bool {
		entry := value.(*ipLimiter)
		entry.mu.Lock()
		idle := entry.lastSeen.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			l.limiters.Delete(key)
		}
		return true
	})
}

func (l *IPRateLimiter) startSweeper(every time.Duration) {
	l.sweeping.Add(1)
	go func() {
		defer l.sweeping.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Sweep()
			case <-l.done:
				return
			}
		}
	}()
}

// Stop ends the idle sweeper and waits for it to exit. It is safe to call
// more than once and on a nil limiter.
func (l *IPRateLimiter) Stop() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() { close(l.done) })
	l.sweeping.Wait()
}

// Middleware rejects requests exceeding the configured rate with 429 and the
// form's JSON error shape, keyed by the connecting IP (chi's RealIP rewrites
// RemoteAddr when the service sits behind a proxy). A nil limiter passes
// every request through.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(remoteIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": rateLimitedMessage,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
