// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache provides a sharded, concurrent memoization map.
//
// Keys are distributed over shards by xxhash; each shard is a map guarded by
// its own RWMutex, so lookups on different shards never contend. Concurrent
// first-time computations of the same key are collapsed with singleflight
// and the first stored value wins. Absent results can be cached like any
// other value, which is how the route table memoizes "no match".
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultShards is the shard count used when none is configured.
const DefaultShards = 32

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      uint64 // Lookups served from the cache
	Misses    uint64 // Lookups that ran the compute function
	Shared    uint64 // Misses that reused another caller's in-flight computation
	Dropped   uint64 // Computed values not stored because their shard was full
	Entries   int    // Current number of entries
	Evictions uint64 // Entries removed by Clear
}

type shard[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

// Cache memoizes values of type V by string key. The zero value is not
// usable; create caches with New.
type Cache[V any] struct {
	shards   []shard[V]
	mask     uint64
	perShard int // 0 means unbounded
	group    singleflight.Group

	hits, misses, shared, dropped, evictions atomic.Uint64
}

// Option configures a Cache.
type Option func(*config)

type config struct {
	shards   int
	capacity int
}

// WithShards sets the shard count, rounded up to a power of two.
func WithShards(n int) Option {
	return func(c *config) {
		c.shards = n
	}
}

// WithCapacity bounds the total number of entries. Once a shard holds its
// share, new keys in it are still computed but not stored. Zero or negative
// means unbounded.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// New creates an empty cache.
func New[V any](opts ...Option) *Cache[V] {
	cfg := config{shards: DefaultShards}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := 1
	for n < cfg.shards {
		n <<= 1
	}

	c := &Cache[V]{
		shards: make([]shard[V], n),
		mask:   uint64(n - 1), //nolint:gosec // G115: n is a positive power of two
	}
	if cfg.capacity > 0 {
		c.perShard = max(cfg.capacity/n, 1)
	}
	for i := range c.shards {
		c.shards[i].entries = make(map[string]V)
	}
	return c
}

func (c *Cache[V]) shardFor(key string) *shard[V] {
	return &c.shards[xxhash.Sum64String(key)&c.mask]
}

// Get returns the cached value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	s := c.shardFor(key)
	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()
	return v, ok
}

// GetOrCompute returns the cached value for key, computing and storing it
// with fn on a miss. cached reports whether the value was served from the
// cache. fn must be a pure function of key: concurrent callers for the same
// key share one invocation, and if a value was stored in the meantime the
// stored value is returned instead of fn's.
func (c *Cache[V]) GetOrCompute(key string, fn func() V) (value V, cached bool) {
	if v, ok := c.Get(key); ok {
		c.hits.Add(1)
		return v, true
	}
	c.misses.Add(1)

	v, _, shared := c.group.Do(key, func() (any, error) {
		return c.store(key, fn()), nil
	})
	if shared {
		c.shared.Add(1)
	}
	out, _ := v.(V)
	return out, false
}

// store inserts v unless key is already present; the first writer wins.
func (c *Cache[V]) store(key string, v V) V {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok {
		return existing
	}
	if c.perShard > 0 && len(s.entries) >= c.perShard {
		c.dropped.Add(1)
		return v
	}
	s.entries[key] = v
	return v
}

// Len returns the current number of entries.
func (c *Cache[V]) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Clear removes every entry. Counters other than Entries are preserved.
func (c *Cache[V]) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		//nolint:gosec // G115: len is non-negative
		c.evictions.Add(uint64(len(s.entries)))
		clear(s.entries)
		s.mu.Unlock()
	}
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Shared:    c.shared.Load(),
		Dropped:   c.dropped.Load(),
		Entries:   c.Len(),
		Evictions: c.evictions.Load(),
	}
}
