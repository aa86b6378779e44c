// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tcgvault/internal/metrics"
)

const defaultCleanupInterval = 5 * time.Minute

// Entry represents a cached item with expiration
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Stats tracks cache performance
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Cache is a thread-safe in-memory cache with TTL support.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration

	statsMu sync.Mutex
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache whose entries live for ttl. A janitor goroutine
// sweeps expired entries every five minutes until Close is called.
func New(ttl time.Duration) *Cache {
	return newWithCleanup(ttl, defaultCleanupInterval)
}

func newWithCleanup(ttl, interval time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		stats:   Stats{LastCleanup: time.Now()},
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop(interval)
	return c
}

// Close stops the janitor. The cache remains usable.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Get retrieves a value. Expired entries are removed and count as a miss.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if current, ok := c.entries[key]; ok && time.Now().After(current.ExpiresAt) {
			delete(c.entries, key)
			c.recordEvictions(1)
		}
		c.mu.Unlock()
		c.recordMiss()
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.TotalKeys = total
	c.statsMu.Unlock()
}

// Delete removes one entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.TotalKeys = total
	c.statsMu.Unlock()
	if existed {
		c.recordEvictions(1)
	}
}

// Clear removes all entries in one step.
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.TotalKeys = 0
	c.statsMu.Unlock()
	c.recordEvictions(evicted)
}

// GetStats returns a copy of the current statistics.
func (c *Cache) GetStats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// GetOrLoad returns the cached value for key or calls load and caches its
// result. Loader errors are returned and nothing is cached.
func GetOrLoad[T any](c *Cache, key string, load func() (T, error)) (T, error) {
	if data, ok := c.Get(key); ok {
		if typed, ok := data.(T); ok {
			return typed, nil
		}
	}

	value, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, value)
	return value, nil
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes all expired entries
func (c *Cache) cleanup() {
	now := time.Now()

	c.mu.Lock()
	evicted := int64(0)
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.TotalKeys = total
	c.stats.LastCleanup = now
	c.statsMu.Unlock()
	c.recordEvictions(evicted)
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
	metrics.CacheHits.Inc()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
	metrics.CacheMisses.Inc()
}

func (c *Cache) recordEvictions(n int64) {
	if n == 0 {
		return
	}
	c.statsMu.Lock()
	c.stats.Evictions += n
	c.statsMu.Unlock()
	metrics.CacheEvictions.Add(float64(n))
}

// GenerateKey creates a cache key from a query name and its parameters
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
