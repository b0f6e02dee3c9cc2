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

package routematch

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"rivaas.dev/routematch/cache"
	"rivaas.dev/routematch/constraint"
)

const (
	defaultBloomHashFunctions = 3
	defaultCacheCapacity      = 10_000
	defaultParamWarnThreshold = 8
)

// Option configures Build and NewEngine.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	diagnostics   DiagnosticHandler
	meterProvider metric.MeterProvider
	registry      *constraint.Registry
	nilRegistry   bool

	backtrack bool

	cacheEnabled  bool
	cacheShards   int
	cacheCapacity int

	bloomSize          uint64
	bloomHashFunctions int

	paramWarnThreshold int
}

func defaultConfig() *config {
	return &config{
		logger:             slog.New(slog.DiscardHandler),
		meterProvider:      noop.NewMeterProvider(),
		cacheEnabled:       true,
		cacheShards:        cache.DefaultShards,
		cacheCapacity:      defaultCacheCapacity,
		bloomHashFunctions: defaultBloomHashFunctions,
		paramWarnThreshold: defaultParamWarnThreshold,
	}
}

func newConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("routematch configuration validation failed: %w", err)
	}
	if cfg.registry == nil {
		cfg.registry = defaultRegistry
	}
	return cfg, nil
}

// validate checks the configuration for values Build cannot work with.
func (c *config) validate() error {
	if c.nilRegistry {
		return ErrNilRegistry
	}
	if c.bloomHashFunctions <= 0 {
		return fmt.Errorf("%w: got %d", ErrBloomHashFunctionsInvalid, c.bloomHashFunctions)
	}
	if c.cacheShards <= 0 {
		return fmt.Errorf("%w: shards must be positive, got %d", ErrCacheConfigInvalid, c.cacheShards)
	}
	if c.cacheCapacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative, got %d", ErrCacheConfigInvalid, c.cacheCapacity)
	}
	return nil
}

// defaultRegistry serves tables built without WithConstraintRegistry.
var defaultRegistry = constraint.NewRegistry()

// WithLogger sets the logger for build and reload events. Build summaries
// are logged at Info, each compiled route at Debug.
//
// Default: a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDiagnostics sets a handler for build-time diagnostic events.
//
// Example:
//
//	handler := routematch.DiagnosticHandlerFunc(func(e routematch.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	t, err := routematch.Build(endpoints, routematch.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(c *config) {
		c.diagnostics = handler
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider used for match
// and cache counters.
//
// Default: a no-op provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		if mp != nil {
			c.meterProvider = mp
		}
	}
}

// WithConstraintRegistry sets the registry that resolves inline constraint
// names such as "int" or "range(1,10)".
//
// Default: a registry with the built-in constraints.
func WithConstraintRegistry(r *constraint.Registry) Option {
	return func(c *config) {
		c.registry = r
		c.nilRegistry = r == nil
	}
}

// WithConstraintBacktracking controls what happens when the first terminal a
// path reaches fails its constraints. When disabled, the match fails. When
// enabled, the search continues into alternative branches, so
// "/users/{id:int}" and "/users/{name}" can share a position.
//
// Default: false
func WithConstraintBacktracking(enabled bool) Option {
	return func(c *config) {
		c.backtrack = enabled
	}
}

// WithoutCache disables the match cache. Every Match walks the index and
// tree.
func WithoutCache() Option {
	return func(c *config) {
		c.cacheEnabled = false
	}
}

// WithCacheShards sets the number of cache shards, rounded up to a power of
// two.
//
// Default: 32
func WithCacheShards(n int) Option {
	return func(c *config) {
		c.cacheShards = n
	}
}

// WithCacheCapacity bounds the number of cached paths, split evenly across
// shards. Once a shard is full, new paths are resolved without being stored.
// Misses are cached too, so zero (unbounded) lets distinct request paths grow
// the cache without limit.
//
// Default: 10000
func WithCacheCapacity(n int) Option {
	return func(c *config) {
		c.cacheCapacity = n
	}
}

// WithBloomFilterSize sets the bit count of the exact-match bloom filter.
// Zero sizes it from the number of static routes. The filter is only built
// for tables with ten or more static routes.
//
// Default: 0
func WithBloomFilterSize(size uint64) Option {
	return func(c *config) {
		c.bloomSize = size
	}
}

// WithBloomFilterHashFunctions sets the number of bloom filter hash functions.
//
// Default: 3
// Range: 1-10 (larger values are clamped)
func WithBloomFilterHashFunctions(numFuncs int) Option {
	return func(c *config) {
		c.bloomHashFunctions = min(numFuncs, 10)
	}
}

// WithParamWarnThreshold sets the parameter count above which Build emits
// a DiagHighParamCount event.
//
// Default: 8
func WithParamWarnThreshold(n int) Option {
	return func(c *config) {
		c.paramWarnThreshold = n
	}
}
