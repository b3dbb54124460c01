// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package ttlcache provides a small in-memory cache whose entries expire a
// fixed duration after they are stored.
//
// Expired entries are removed lazily on read. [Cache.GetOrFetch] collapses
// concurrent fetches for the same key into a single call, so a burst of
// lookups for a cold key reaches the backing source once.
//
//	names := ttlcache.New[string, map[string]string](6 * time.Hour)
//	m, err := names.GetOrFetch(ctx, "account", func(ctx context.Context) (map[string]string, error) {
//	    return loadDeviceNames(ctx)
//	})
package ttlcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a key on a cache miss.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Option is a functional option for configuring a [Cache].
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the time source. Passing nil is a no-op.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a concurrency-safe TTL cache keyed by K.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time
	group   singleflight.Group
}

// New creates a [Cache] whose entries live for ttl.
// A non-positive ttl disables storage; every Get misses.
func New[K comparable, V any](ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     o.now,
	}
}

// TTL returns the configured lifetime of an entry.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached value for key.
// It reports false when the key is absent or has expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}

	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Only drop it if nobody refreshed the entry in between.
		if cur, exists := c.entries[key]; exists && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Set stores val under key for the configured TTL.
func (c *Cache[K, V]) Set(key K, val V) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = entry[V]{
		value:     val,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// GetOrFetch returns the cached value for key, calling fetch on a miss and
// storing its result. Errors are returned to every waiting caller and are
// not cached.
func (c *Cache[K, V]) GetOrFetch(ctx context.Context, key K, fetch FetchFunc[V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	res, err, _ := c.group.Do(fmt.Sprint(key), func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Invalidate removes key from the cache.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Flush removes all entries from the cache.
func (c *Cache[K, V]) Flush() {
	c.mu.Lock()
	c.entries = make(map[K]entry[V])
	c.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones not
// yet evicted.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
