package cache

import (
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on empty cache returned ok")
	}

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok || got != "alpha" {
		t.Errorf("Get(a) = %q, %v, want alpha, true", got, ok)
	}

	c.Set("a", "alpha2")
	got, _ = c.Get("a")
	if got != "alpha2" {
		t.Errorf("Get(a) after overwrite = %q, want alpha2", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCache_EvictsOldest(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch a so b becomes the eviction candidate
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCache_TTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("Get() returned expired entry")
	}
}

func TestLRUCache_DeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("user1|daily|2025-06-10", 1)
	c.Set("user1|monthly|2025-06", 2)
	c.Set("user2|daily|2025-06-10", 3)

	c.DeletePrefix("user1|")

	if _, ok := c.Get("user1|daily|2025-06-10"); ok {
		t.Error("user1 daily entry survived DeletePrefix")
	}
	if _, ok := c.Get("user1|monthly|2025-06"); ok {
		t.Error("user1 monthly entry survived DeletePrefix")
	}
	if _, ok := c.Get("user2|daily|2025-06-10"); !ok {
		t.Error("user2 entry was dropped by another user's prefix")
	}
}

func TestLRUCache_CleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)

	if cleaned := c.CleanExpired(); cleaned != 2 {
		t.Errorf("CleanExpired() = %d, want 2", cleaned)
	}
	if c.Size() != 0 {
		t.Errorf("Size() after clean = %d, want 0", c.Size())
	}
}
