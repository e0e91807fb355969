package competitor

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/internal/cache"
	"github.com/brandpulse/brandpulse/pkg/logging"
)

// Store is the key-value backend under the competitor cache. The Redis
// wrapper satisfies it; tests use an in-memory fake. Store errors are
// never fatal here: the cache fails open and reports a miss.
type Store interface {
	Get(key string) (string, error)
	GetMulti(keys []string) ([]interface{}, error)
	Set(key string, value interface{}, ttl time.Duration) error
	SetMulti(values map[string]interface{}, ttl time.Duration) error
	Delete(key string) error
	Exists(key string) (bool, error)
}

// cachedEntry wraps a collection result with the time it was cached.
// Freshness is judged against CachedAt on every read.
type cachedEntry struct {
	CachedAt time.Time         `json:"cached_at"`
	Result   *CollectionResult `json:"result"`
}

// CacheStats reports hit/miss accounting since process start
type CacheStats struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
	TrackedKeys int     `json:"tracked_keys"`
}

// Cache is a freshness-windowed overlay over a key-value store, keyed by
// (profile URL, collection options). An entry older than the freshness
// window is treated as a miss and deleted on detection; the store TTL is
// set to the same window as a cleanup backstop, never as a second policy.
//
// This is not a capacity-bounded cache: there is no LRU or memory budget,
// only staleness. That is a deliberate limitation.
type Cache struct {
	store     Store
	freshness time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	hits    int64
	misses  int64
	tracked map[string]time.Time
}

// NewCache creates a competitor cache over a store. A nil-backed store is
// allowed and behaves as always-miss.
func NewCache(store Store, freshness time.Duration) *Cache {
	if freshness <= 0 {
		freshness = 24 * time.Hour
	}
	return &Cache{
		store:     store,
		freshness: freshness,
		logger:    logging.GetLogger().With(zap.String("component", "competitor-cache")),
		now:       time.Now,
		tracked:   map[string]time.Time{},
	}
}

// Key derives the deterministic cache key for a profile URL and options.
// The same (url, maxPosts, timePeriodDays) always maps to the same key.
func (c *Cache) Key(profileURL string, opts Options) string {
	opts = opts.withDefaults()
	return "competitor:" + cache.HashKey(
		profileURL,
		strconv.Itoa(opts.MaxPosts),
		strconv.Itoa(opts.TimePeriodDays),
	)
}

// Get returns the cached result for a profile URL, or (nil, false) on a
// miss. Stale and corrupt entries count as misses and are deleted.
func (c *Cache) Get(profileURL string, opts Options) (*CollectionResult, bool) {
	key := c.Key(profileURL, opts)

	raw, err := c.store.Get(key)
	if err != nil {
		// store unreachable, disabled, or key absent
		c.recordMiss(1)
		return nil, false
	}
	result, ok := c.decodeEntry(key, raw)
	if !ok {
		c.recordMiss(1)
		return nil, false
	}
	c.recordHit(1)
	return result, true
}

// Set caches one collection result. Failed results are never cached so the
// next request retries instead of reading a failure for the whole window.
func (c *Cache) Set(profileURL string, result *CollectionResult, opts Options) {
	if result == nil || result.Failed() {
		return
	}
	key := c.Key(profileURL, opts)
	payload, err := json.Marshal(cachedEntry{CachedAt: c.now(), Result: result})
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", zap.String("url", profileURL), zap.Error(err))
		return
	}
	if err := c.store.Set(key, payload, c.freshness); err != nil {
		c.logger.Warn("Cache write failed", zap.String("url", profileURL), zap.Error(err))
		return
	}
	c.track(key)
}

// GetMultiple looks up many profile URLs in one store round trip and
// partitions them into hits and misses. One bad entry never fails the
// batch; it is a miss.
func (c *Cache) GetMultiple(profileURLs []string, opts Options) (map[string]*CollectionResult, []string, []string) {
	results := make(map[string]*CollectionResult, len(profileURLs))
	var hits, misses []string

	if len(profileURLs) == 0 {
		return results, hits, misses
	}

	keys := make([]string, len(profileURLs))
	for i, profileURL := range profileURLs {
		keys[i] = c.Key(profileURL, opts)
	}

	values, err := c.store.GetMulti(keys)
	if err != nil || len(values) != len(keys) {
		if err != nil {
			c.logger.Warn("Cache batch read failed, treating all as misses", zap.Error(err))
		}
		c.recordMiss(int64(len(profileURLs)))
		return results, hits, profileURLs
	}

	for i, profileURL := range profileURLs {
		raw, ok := values[i].(string)
		if !ok {
			misses = append(misses, profileURL)
			continue
		}
		result, ok := c.decodeEntry(keys[i], raw)
		if !ok {
			misses = append(misses, profileURL)
			continue
		}
		results[profileURL] = result
		hits = append(hits, profileURL)
	}

	c.recordHit(int64(len(hits)))
	c.recordMiss(int64(len(misses)))
	return results, hits, misses
}

// SetMultiple caches many results in one pipelined write, skipping failed
// collections. Best-effort: a failed batch write is logged, not returned.
func (c *Cache) SetMultiple(results map[string]*CollectionResult, opts Options) {
	values := make(map[string]interface{}, len(results))
	now := c.now()
	for profileURL, result := range results {
		if result == nil || result.Failed() {
			continue
		}
		payload, err := json.Marshal(cachedEntry{CachedAt: now, Result: result})
		if err != nil {
			c.logger.Warn("Failed to encode cache entry", zap.String("url", profileURL), zap.Error(err))
			continue
		}
		values[c.Key(profileURL, opts)] = payload
	}
	if len(values) == 0 {
		return
	}
	if err := c.store.SetMulti(values, c.freshness); err != nil {
		c.logger.Warn("Cache batch write failed", zap.Error(err))
		return
	}
	for key := range values {
		c.track(key)
	}
}

// Exists reports whether a fresh entry is cached for the URL
func (c *Cache) Exists(profileURL string, opts Options) bool {
	ok, err := c.store.Exists(c.Key(profileURL, opts))
	return err == nil && ok
}

// Delete removes a cached entry
func (c *Cache) Delete(profileURL string, opts Options) {
	key := c.Key(profileURL, opts)
	if err := c.store.Delete(key); err != nil {
		c.logger.Warn("Cache delete failed", zap.String("url", profileURL), zap.Error(err))
	}
	c.mu.Lock()
	delete(c.tracked, key)
	c.mu.Unlock()
}

// Stats returns hit/miss accounting since process start
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Hits:        c.hits,
		Misses:      c.misses,
		TrackedKeys: len(c.tracked),
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// Cleanup proactively deletes tracked entries whose write time fell out of
// the freshness window. Lazy expiry on read already guarantees a stale
// entry is never returned; this only reclaims store space earlier.
func (c *Cache) Cleanup() int {
	cutoff := c.now().Add(-c.freshness)

	c.mu.Lock()
	var expired []string
	for key, cachedAt := range c.tracked {
		if cachedAt.Before(cutoff) {
			expired = append(expired, key)
			delete(c.tracked, key)
		}
	}
	c.mu.Unlock()

	for _, key := range expired {
		if err := c.store.Delete(key); err != nil {
			c.logger.Warn("Cleanup delete failed", zap.String("key", key), zap.Error(err))
		}
	}
	return len(expired)
}

// decodeEntry unmarshals and freshness-checks one raw entry. Corrupt and
// stale entries are deleted and reported as not-ok.
func (c *Cache) decodeEntry(key, raw string) (*CollectionResult, bool) {
	var entry cachedEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Result == nil {
		c.logger.Warn("Corrupt cache entry, deleting", zap.String("key", key), zap.Error(err))
		c.deleteKey(key)
		return nil, false
	}
	if c.now().Sub(entry.CachedAt) >= c.freshness {
		c.deleteKey(key)
		return nil, false
	}
	return entry.Result, true
}

func (c *Cache) deleteKey(key string) {
	if err := c.store.Delete(key); err != nil {
		c.logger.Warn("Cache delete failed", zap.String("key", key), zap.Error(err))
	}
	c.mu.Lock()
	delete(c.tracked, key)
	c.mu.Unlock()
}

func (c *Cache) track(key string) {
	c.mu.Lock()
	c.tracked[key] = c.now()
	c.mu.Unlock()
}

func (c *Cache) recordHit(n int64) {
	c.mu.Lock()
	c.hits += n
	c.mu.Unlock()
}

func (c *Cache) recordMiss(n int64) {
	c.mu.Lock()
	c.misses += n
	c.mu.Unlock()
}
