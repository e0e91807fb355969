package cache

import (
	"testing"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single part",
			parts: []string{"https://twitter.com/acme"},
		},
		{
			name:  "url with options",
			parts: []string{"https://twitter.com/acme", "50", "30"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			// Hash should be consistent
			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			// Hash should be 32 characters (MD5 hex)
			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}
}

func TestHashKeyDistinguishesParts(t *testing.T) {
	// Joining with a separator must keep ("ab","c") and ("a","bc") apart
	if HashKey("ab", "c") == HashKey("a", "bc") {
		t.Error("HashKey() should not collide across different part boundaries")
	}
	if HashKey("url", "50", "30") == HashKey("url", "50", "31") {
		t.Error("HashKey() should change when any part changes")
	}
}

func TestCache_NamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "brandpulse:test",
		},
		{
			name:     "key with colon",
			key:      "competitor:abc",
			expected: "brandpulse:competitor:abc",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "brandpulse:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cache.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCacheDisabled(t *testing.T) {
	var c *Cache

	if _, err := c.Get("key"); err != ErrCacheDisabled {
		t.Errorf("Get() on nil cache should return ErrCacheDisabled, got %v", err)
	}
	if err := c.Set("key", "value", 0); err != ErrCacheDisabled {
		t.Errorf("Set() on nil cache should return ErrCacheDisabled, got %v", err)
	}
	if _, err := c.GetMulti([]string{"a", "b"}); err != ErrCacheDisabled {
		t.Errorf("GetMulti() on nil cache should return ErrCacheDisabled, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil cache should be a no-op, got %v", err)
	}
}
