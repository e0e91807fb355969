package competitor

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/brandpulse/brandpulse/internal/platform"
)

// memStore is an in-memory Store for tests
type memStore struct {
	mu      sync.Mutex
	data    map[string]string
	failing bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (s *memStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return "", errors.New("store unreachable")
	}
	value, ok := s.data[key]
	if !ok {
		return "", errors.New("key not found")
	}
	return value, nil
}

func (s *memStore) GetMulti(keys []string) ([]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errors.New("store unreachable")
	}
	values := make([]interface{}, len(keys))
	for i, key := range keys {
		if value, ok := s.data[key]; ok {
			values[i] = value
		}
	}
	return values, nil
}

func (s *memStore) Set(key string, value interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store unreachable")
	}
	s.data[key] = asString(value)
	return nil
}

func (s *memStore) SetMulti(values map[string]interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store unreachable")
	}
	for key, value := range values {
		s.data[key] = asString(value)
	}
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) Exists(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok, nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func successResult(url string) *CollectionResult {
	return &CollectionResult{
		ProfileURL: url,
		Profile: &platform.Profile{
			Platform:  platform.Twitter,
			Username:  "acme",
			Followers: 1000,
		},
		Content:     &ContentMetrics{TotalPosts: 3, ContentTypes: map[string]int{"text": 3}},
		Engagement:  &EngagementSummary{AverageLikes: 10, Trend: TrendStable},
		DataQuality: &DataQuality{Score: 90, Level: QualityHigh, Factors: []string{"profile_data"}},
		CollectedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCacheKeyDeterminism(t *testing.T) {
	c := NewCache(newMemStore(), 24*time.Hour)

	opts := Options{MaxPosts: 50, TimePeriodDays: 30}
	key1 := c.Key("https://twitter.com/acme", opts)
	key2 := c.Key("https://twitter.com/acme", opts)
	if key1 != key2 {
		t.Errorf("Key() not deterministic: %s vs %s", key1, key2)
	}

	// any option change produces a different key
	if c.Key("https://twitter.com/acme", Options{MaxPosts: 25, TimePeriodDays: 30}) == key1 {
		t.Error("Key() should change with max posts")
	}
	if c.Key("https://twitter.com/acme", Options{MaxPosts: 50, TimePeriodDays: 7}) == key1 {
		t.Error("Key() should change with time period")
	}
	if c.Key("https://twitter.com/other", opts) == key1 {
		t.Error("Key() should change with profile url")
	}

	// zero options normalize to the defaults before hashing
	if c.Key("https://twitter.com/acme", Options{}) != key1 {
		t.Error("Key() with zero options should equal key with default options")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(newMemStore(), 24*time.Hour)
	opts := Options{}

	stored := successResult("https://twitter.com/acme")
	c.Set("https://twitter.com/acme", stored, opts)

	loaded, ok := c.Get("https://twitter.com/acme", opts)
	if !ok {
		t.Fatal("Get() reported a miss immediately after Set()")
	}
	if !reflect.DeepEqual(loaded, stored) {
		t.Errorf("round trip mutated the result:\ngot  %+v\nwant %+v", loaded, stored)
	}
}

func TestCacheFreshnessBoundary(t *testing.T) {
	store := newMemStore()
	c := NewCache(store, 24*time.Hour)
	opts := Options{}

	t0 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return t0 }
	c.Set("https://twitter.com/acme", successResult("https://twitter.com/acme"), opts)

	// fresh one minute before the window closes
	c.now = func() time.Time { return t0.Add(24*time.Hour - time.Minute) }
	if _, ok := c.Get("https://twitter.com/acme", opts); !ok {
		t.Error("entry at t0+23h59m should be a hit")
	}

	// stale one minute after: miss, and proactively deleted
	c.now = func() time.Time { return t0.Add(24*time.Hour + time.Minute) }
	if _, ok := c.Get("https://twitter.com/acme", opts); ok {
		t.Error("entry at t0+24h01m should be a miss")
	}
	if store.len() != 0 {
		t.Error("stale entry should be deleted on detection")
	}
}

func TestCacheCorruptEntry(t *testing.T) {
	store := newMemStore()
	c := NewCache(store, 24*time.Hour)
	opts := Options{}

	key := c.Key("https://twitter.com/acme", opts)
	store.data[key] = "{not json"

	if _, ok := c.Get("https://twitter.com/acme", opts); ok {
		t.Error("corrupt entry should be a miss, not a hit")
	}
	if store.len() != 0 {
		t.Error("corrupt entry should be deleted")
	}
}

func TestCacheGetMultiple(t *testing.T) {
	store := newMemStore()
	c := NewCache(store, 24*time.Hour)
	opts := Options{}

	cachedURL := "https://twitter.com/acme"
	missingURL := "https://twitter.com/other"
	c.Set(cachedURL, successResult(cachedURL), opts)

	// corrupt third entry must not fail the batch
	corruptURL := "https://twitter.com/corrupt"
	store.data[c.Key(corruptURL, opts)] = "garbage"

	results, hits, misses := c.GetMultiple([]string{cachedURL, missingURL, corruptURL}, opts)
	if len(hits) != 1 || hits[0] != cachedURL {
		t.Errorf("hits = %v, want [%s]", hits, cachedURL)
	}
	if len(misses) != 2 {
		t.Errorf("misses = %v, want two entries", misses)
	}
	if results[cachedURL] == nil {
		t.Error("results missing the cached url")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("stats = %+v, want 1 hit / 2 misses", stats)
	}
}

func TestCacheGetMultipleStoreDown(t *testing.T) {
	store := newMemStore()
	store.failing = true
	c := NewCache(store, 24*time.Hour)

	urls := []string{"https://twitter.com/a", "https://twitter.com/b"}
	results, hits, misses := c.GetMultiple(urls, Options{})
	if len(results) != 0 || len(hits) != 0 {
		t.Error("unreachable store should produce no hits")
	}
	if !reflect.DeepEqual(misses, urls) {
		t.Errorf("misses = %v, want all input urls", misses)
	}
}

func TestCacheNeverStoresFailures(t *testing.T) {
	store := newMemStore()
	c := NewCache(store, 24*time.Hour)
	opts := Options{}

	failed := &CollectionResult{
		ProfileURL: "https://twitter.com/broken",
		Error:      "upstream timeout",
	}
	c.Set("https://twitter.com/broken", failed, opts)
	c.SetMultiple(map[string]*CollectionResult{
		"https://twitter.com/broken": failed,
		"https://twitter.com/acme":   successResult("https://twitter.com/acme"),
	}, opts)

	if store.len() != 1 {
		t.Errorf("store has %d entries, want only the success cached", store.len())
	}
	if _, ok := c.Get("https://twitter.com/broken", opts); ok {
		t.Error("failed collection must never be served from cache")
	}
}

func TestCacheCleanup(t *testing.T) {
	store := newMemStore()
	c := NewCache(store, 24*time.Hour)
	opts := Options{}

	t0 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return t0 }
	c.Set("https://twitter.com/old", successResult("https://twitter.com/old"), opts)

	c.now = func() time.Time { return t0.Add(12 * time.Hour) }
	c.Set("https://twitter.com/new", successResult("https://twitter.com/new"), opts)

	c.now = func() time.Time { return t0.Add(25 * time.Hour) }
	expired := c.Cleanup()
	if expired != 1 {
		t.Errorf("Cleanup() = %d, want 1 expired entry", expired)
	}
	if store.len() != 1 {
		t.Errorf("store has %d entries after cleanup, want 1", store.len())
	}
	if _, ok := c.Get("https://twitter.com/new", opts); !ok {
		t.Error("fresh entry should survive cleanup")
	}
}

func TestCacheExistsAndDelete(t *testing.T) {
	c := NewCache(newMemStore(), 24*time.Hour)
	opts := Options{}

	url := "https://twitter.com/acme"
	if c.Exists(url, opts) {
		t.Error("Exists() before Set() should be false")
	}
	c.Set(url, successResult(url), opts)
	if !c.Exists(url, opts) {
		t.Error("Exists() after Set() should be true")
	}
	c.Delete(url, opts)
	if c.Exists(url, opts) {
		t.Error("Exists() after Delete() should be false")
	}
}
