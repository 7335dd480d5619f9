package namecache

import (
	"errors"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	t.Run("loads_on_miss_and_caches", func(t *testing.T) {
		loads := 0
		cache := New(10, time.Minute, func(userID string) (string, error) {
			loads++
			return "Kari Nordmann", nil
		})

		if got := cache.Get("u1"); got != "Kari Nordmann" {
			t.Errorf("expected loaded name, got %q", got)
		}
		if got := cache.Get("u1"); got != "Kari Nordmann" {
			t.Errorf("expected cached name, got %q", got)
		}
		if loads != 1 {
			t.Errorf("expected 1 load, got %d", loads)
		}
	})

	t.Run("load_failure_not_cached", func(t *testing.T) {
		fail := true
		cache := New(10, time.Minute, func(userID string) (string, error) {
			if fail {
				return "", errors.New("db down")
			}
			return "Ola Nordmann", nil
		})

		if got := cache.Get("u1"); got != "" {
			t.Errorf("expected empty name on failure, got %q", got)
		}
		if cache.Len() != 0 {
			t.Errorf("expected nothing cached after failure, got %d", cache.Len())
		}

		fail = false
		if got := cache.Get("u1"); got != "Ola Nordmann" {
			t.Errorf("expected recovery on next lookup, got %q", got)
		}
	})

	t.Run("expired_entry_reloaded", func(t *testing.T) {
		loads := 0
		cache := New(10, -time.Second, func(userID string) (string, error) {
			loads++
			return "Kari Nordmann", nil
		})

		cache.Get("u1")
		cache.Get("u1")
		if loads != 2 {
			t.Errorf("expected reload after expiry, got %d loads", loads)
		}
	})

	t.Run("evicts_least_recently_used", func(t *testing.T) {
		loaded := map[string]int{}
		cache := New(2, time.Minute, func(userID string) (string, error) {
			loaded[userID]++
			return "name-" + userID, nil
		})

		cache.Get("u1")
		cache.Get("u2")
		cache.Get("u1") // refresh u1, making u2 the oldest
		cache.Get("u3") // evicts u2

		if cache.Len() != 2 {
			t.Errorf("expected capacity 2, got %d", cache.Len())
		}

		cache.Get("u1")
		if loaded["u1"] != 1 {
			t.Errorf("expected u1 still cached, got %d loads", loaded["u1"])
		}
		cache.Get("u2")
		if loaded["u2"] != 2 {
			t.Errorf("expected u2 reloaded after eviction, got %d loads", loaded["u2"])
		}
	})
}
