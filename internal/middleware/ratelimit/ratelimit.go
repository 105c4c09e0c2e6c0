// Package ratelimit throttles requests per client IP with a fixed
// one-minute window. It guards the credential endpoints, where the
// cost of a miss is a brute-forced password rather than a slow page.
package ratelimit

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter counts requests per client within the current window.
type Limiter struct {
	mu           sync.Mutex
	clients      map[string]*window
	stopCleanup  chan struct{}
	shutdownOnce sync.Once

	limitedTotal int64

	requestsPerMinute int
	cleanupInterval   time.Duration
}

// window tracks one client's requests inside the current minute.
type window struct {
	start    time.Time
	requests int
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a limiter and starts its cleanup goroutine.
// Callers must Stop it when done.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config = DefaultConfig()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &Limiter{
		clients:           make(map[string]*window),
		stopCleanup:       make(chan struct{}),
		requestsPerMinute: config.RequestsPerMinute,
		cleanupInterval:   config.CleanupInterval,
	}
	go rl.cleanupLoop()
	return rl
}

// Allow reports whether a request from the given IP fits in its
// current window.
func (rl *Limiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, exists := rl.clients[clientIP]

	if !exists || now.Sub(w.start) > time.Minute {
		rl.clients[clientIP] = &window{start: now, requests: 1}
		return true
	}

	w.requests++
	if w.requests > rl.requestsPerMinute {
		atomic.AddInt64(&rl.limitedTotal, 1)
		return false
	}
	return true
}

func (rl *Limiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStale()
		case <-rl.stopCleanup:
			return
		}
	}
}

// dropStale forgets clients that have been quiet long enough that
// their window no longer matters.
func (rl *Limiter) dropStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, w := range rl.clients {
		if w.start.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// ActiveClients returns the number of currently tracked clients
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop gracefully shuts down the cleanup goroutine
func (rl *Limiter) Stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Metrics for monitoring rate limit behavior
type Metrics struct {
	LimitedTotal int64
	ClientCount  int64
}

// GetMetrics returns current rate limiting metrics
func (rl *Limiter) GetMetrics() Metrics {
	rl.mu.Lock()
	clientCount := int64(len(rl.clients))
	rl.mu.Unlock()

	return Metrics{
		LimitedTotal: atomic.LoadInt64(&rl.limitedTotal),
		ClientCount:  clientCount,
	}
}

// Middleware rejects over-limit requests before they reach the
// handler. onLimit writes the rejection response; a nil onLimit gets
// a plain 429.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(extractIP(r)) {
				if onLimit != nil {
					onLimit(w, r)
				} else {
					w.Header().Set("Retry-After", "60")
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
