package cache

import (
	"log/slog"
	"time"
)

// Cleaner is implemented by caches that can evict expired entries on
// demand. CleanExpired returns how many entries were removed.
type Cleaner interface {
	CleanExpired() int
}

// Manager sweeps registered caches on an interval so entries past
// their TTL do not linger until the next Get touches them.
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

// NewManager creates a new cache manager
func NewManager() *Manager {
	return &Manager{
		caches:      make([]Cleaner, 0),
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the sweep schedule. Call before
// StartCleanup; the slice is not guarded.
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// StartCleanup begins periodic cleanup of all registered caches
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := 0
			for _, cache := range m.caches {
				cleaned += cache.CleanExpired()
			}
			if cleaned > 0 {
				slog.Debug("cache sweep", "cleaned", cleaned)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop halts the sweep goroutine and waits for it to exit. Only valid
// after StartCleanup.
func (m *Manager) Stop() {
	close(m.stopCleanup)
	<-m.cleanupDone
}
